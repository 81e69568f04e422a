package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/hash"
	"github.com/Skotchmaster/hr_backend/internal/models"
)

// UserRepo is the credential store: identities, password checks and roles.
type UserRepo struct {
	DB *gorm.DB
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepo) CheckPassword(user *models.User, password string) bool {
	return hash.CheckPassword(user.PasswordHash, password)
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *UserRepo) Delete(ctx context.Context, user *models.User) error {
	user.Active = false
	return r.DB.WithContext(ctx).Save(user).Error
}

// AddRole attaches a role to the user, creating the role row on first use.
func (r *UserRepo) AddRole(ctx context.Context, user *models.User, roleName string) error {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Model(user).Association("Roles").Append(&role)
}

func (r *UserRepo) GetRoles(ctx context.Context, user *models.User) ([]string, error) {
	var roles []models.Role
	if err := r.DB.WithContext(ctx).Model(user).Association("Roles").Find(&roles); err != nil {
		return nil, err
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}
	return names, nil
}
