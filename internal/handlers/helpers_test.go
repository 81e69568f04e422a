package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/repo"
	authsvc "github.com/Skotchmaster/hr_backend/internal/service/auth"
	tokensvc "github.com/Skotchmaster/hr_backend/internal/service/token"
)

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Role{}, &models.RefreshToken{},
		&models.Department{}, &models.Employee{}, &models.Attendance{}, &models.LeaveRequest{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)

	tokenService := &tokensvc.Service{
		Tokens:     &repo.TokenRepo{DB: db},
		Secret:     []byte("test-secret"),
		Issuer:     "hr_backend",
		Audience:   "hr_backend",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	authService := &authsvc.Service{
		DB:     db,
		Users:  &repo.UserRepo{DB: db},
		Tokens: tokenService,
	}

	e := echo.New()
	e.Validator = NewValidator()

	return &testEnv{
		E:  e,
		DB: db,
		A:  &AuthHandler{Auth: authService, Producer: &mykafka.Producer{}},
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, echo.Context) {
	bodyBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// asUser marks the context as authenticated the way the jwt middleware would.
func asUser(c echo.Context, userID uint, roles ...string) {
	c.Set("user", &jwt.Token{Claims: &tokensvc.AccessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(uint64(userID), 10),
		},
	}})
}
