package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/repo"
)

const refreshTokenBytes = 64

// AccessClaims is the claim set carried by every access token.
type AccessClaims struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// Service mints and validates tokens. Access tokens are self-contained
// HS256 JWTs, refresh tokens are opaque secrets persisted via TokenRepo.
type Service struct {
	Tokens     *repo.TokenRepo
	Secret     []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *Service) IssueAccessToken(user *models.User, roles []string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.AccessTTL)
	claims := AccessClaims{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefreshToken returns a high-entropy opaque bearer secret. It has no
// side effects; CreateRefreshToken persists it.
func (s *Service) IssueRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DecodeExpiredToken verifies signature, algorithm, issuer and audience but
// deliberately skips expiry, so a just-expired access token can still be
// exchanged during refresh.
func (s *Service) DecodeExpiredToken(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !tkn.Valid {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "cannot decode access token", err)
	}
	if claims.Issuer != s.Issuer {
		return nil, apperr.New(apperr.KindInvalidToken, "unexpected issuer")
	}
	audOK := false
	for _, aud := range claims.Audience {
		if aud == s.Audience {
			audOK = true
			break
		}
	}
	if !audOK {
		return nil, apperr.New(apperr.KindInvalidToken, "unexpected audience")
	}
	return &claims, nil
}

func (s *Service) CreateRefreshToken(ctx context.Context, userID uint) (*models.RefreshToken, error) {
	raw, err := s.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		Token:     raw,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.RefreshTTL),
	}
	if err := s.Tokens.Add(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ValidateRefreshToken fails closed: unknown token, owner mismatch, revoked
// and expired all report false.
func (s *Service) ValidateRefreshToken(ctx context.Context, token string, userID uint) bool {
	stored, err := s.Tokens.FindByToken(ctx, token)
	if err != nil || stored == nil {
		return false
	}
	if stored.UserID != userID {
		return false
	}
	return stored.IsActive()
}

// RevokeRefreshToken is a no-op when the token is absent or already revoked.
func (s *Service) RevokeRefreshToken(ctx context.Context, token, reason string) error {
	stored, err := s.Tokens.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if stored == nil || stored.RevokedAt != nil {
		return nil
	}
	now := time.Now()
	stored.RevokedAt = &now
	stored.RevokedReason = reason
	return s.Tokens.Update(ctx, stored)
}

func (s *Service) RevokeAllUserTokens(ctx context.Context, userID uint, reason string) error {
	return s.Tokens.RevokeAllForUser(ctx, userID, reason)
}
