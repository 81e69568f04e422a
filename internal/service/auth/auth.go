package auth

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/hash"
	"github.com/Skotchmaster/hr_backend/internal/logging"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/repo"
	"github.com/Skotchmaster/hr_backend/internal/service/token"
)

const DefaultRole = "User"

const (
	reasonReplaced = "replaced"
	reasonLogout   = "logout"
	reasonManual   = "manual revocation"
	reasonDeleted  = "account deleted"
)

// Service coordinates the credential store and the token issuer.
type Service struct {
	DB     *gorm.DB
	Users  *repo.UserRepo
	Tokens *token.Service
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
	Roles        []string
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type UpdateInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// withTx rebinds the repos onto a transaction so multi-step flows commit or
// roll back as one unit.
func (s *Service) withTx(tx *gorm.DB) (*repo.UserRepo, *token.Service) {
	issuer := *s.Tokens
	issuer.Tokens = &repo.TokenRepo{DB: tx}
	return &repo.UserRepo{DB: tx}, &issuer
}

func (s *Service) issuePair(ctx context.Context, users *repo.UserRepo, issuer *token.Service, user *models.User) (*LoginResult, error) {
	roles, err := users.GetRoles(ctx, user)
	if err != nil {
		return nil, err
	}

	access, accessExp, err := issuer.IssueAccessToken(user, roles)
	if err != nil {
		return nil, err
	}
	refresh, err := issuer.CreateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		AccessExp:    accessExp,
		RefreshExp:   refresh.ExpiresAt,
		User:         user,
		Roles:        roles,
	}, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", in.Email)

	if existing, err := s.Users.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		l.Warn("registration rejected", "reason", "email taken")
		return nil, apperr.ErrUserAlreadyExists
	}
	if existing, err := s.Users.FindByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		l.Warn("registration rejected", "reason", "username taken")
		return nil, apperr.ErrUserAlreadyExists
	}

	var result *LoginResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		users, issuer := s.withTx(tx)

		user := &models.User{
			Email:     in.Email,
			Username:  in.Username,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Active:    true,
		}
		if err := users.Create(ctx, user, in.Password); err != nil {
			return err
		}
		if err := users.AddRole(ctx, user, DefaultRole); err != nil {
			return err
		}

		pair, err := s.issuePair(ctx, users, issuer, user)
		if err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		l.Error("registration failed", "error", err)
		return nil, err
	}

	l.Info("user registered", "user_id", result.User.ID)
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.Users.CheckPassword(user, password) {
		l.Warn("login failed", "reason", "invalid credentials")
		return nil, apperr.ErrInvalidCredentials
	}
	// Checked only after the password matched, so the response does not
	// distinguish a deactivated account from an unknown one.
	if !user.Active {
		l.Warn("login failed", "reason", "account deactivated")
		return nil, apperr.ErrUserNotActive
	}

	var result *LoginResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		users, issuer := s.withTx(tx)
		pair, err := s.issuePair(ctx, users, issuer, user)
		if err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		l.Error("login failed", "error", err)
		return nil, err
	}

	l.Info("user logged in", "user_id", user.ID)
	return result, nil
}

// Refresh exchanges a possibly expired access token plus an active refresh
// token for a new pair, revoking the presented refresh token (rotation).
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.DecodeExpiredToken(accessToken)
	if err != nil {
		return nil, err
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		l.Warn("refresh rejected", "reason", "missing subject claim")
		return nil, apperr.ErrInvalidRefreshToken
	}

	if !s.Tokens.ValidateRefreshToken(ctx, refreshToken, uint(userID)) {
		l.Warn("refresh rejected", "reason", "refresh token not active")
		return nil, apperr.ErrInvalidRefreshToken
	}

	user, err := s.Users.FindByID(ctx, uint(userID))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrInvalidRefreshToken
	}
	if !user.Active {
		return nil, apperr.ErrUserNotActive
	}

	var result *LoginResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		users, issuer := s.withTx(tx)

		pair, err := s.issuePair(ctx, users, issuer, user)
		if err != nil {
			return err
		}

		old, err := issuer.Tokens.FindByToken(ctx, refreshToken)
		if err != nil {
			return err
		}
		if old == nil || old.RevokedAt != nil {
			// Lost the race against a concurrent refresh of the same token.
			return apperr.ErrInvalidRefreshToken
		}
		now := time.Now()
		old.RevokedAt = &now
		old.RevokedReason = reasonReplaced
		old.ReplacedByToken = pair.RefreshToken
		if err := issuer.Tokens.Update(ctx, old); err != nil {
			return err
		}

		result = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("token pair rotated", "user_id", user.ID)
	return result, nil
}

// Logout revokes every active refresh token of the user. Outstanding access
// tokens stay valid until they expire.
func (s *Service) Logout(ctx context.Context, userID uint) error {
	logging.FromContext(ctx).Info("user logged out", "svc", "auth.logout", "user_id", userID)
	return s.Tokens.RevokeAllUserTokens(ctx, userID, reasonLogout)
}

// RevokeToken revokes one refresh token by value regardless of owner.
func (s *Service) RevokeToken(ctx context.Context, tokenValue string) error {
	return s.Tokens.RevokeRefreshToken(ctx, tokenValue, reasonManual)
}

func (s *Service) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

// UpdateUser overwrites only the fields present in the input.
func (s *Service) UpdateUser(ctx context.Context, userID uint, in UpdateInput) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrInvalidCredentials
	}

	if in.Email != "" && in.Email != user.Email {
		other, err := s.Users.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, apperr.ErrUserAlreadyExists
		}
		user.Email = in.Email
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Password != "" {
		pwHash, err := hash.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser revokes the user's refresh tokens and deactivates the account.
// Identity rows are kept (deactivation is the deletion policy).
func (s *Service) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrNotFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		users, issuer := s.withTx(tx)
		if err := issuer.RevokeAllUserTokens(ctx, userID, reasonDeleted); err != nil {
			return err
		}
		return users.Delete(ctx, user)
	})
}
