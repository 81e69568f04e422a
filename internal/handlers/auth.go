package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	authmw "github.com/Skotchmaster/hr_backend/internal/middleware/auth"
	"github.com/Skotchmaster/hr_backend/internal/models"
	"github.com/Skotchmaster/hr_backend/internal/mykafka"
	"github.com/Skotchmaster/hr_backend/internal/service/auth"
)

type AuthHandler struct {
	Auth     *auth.Service
	Producer *mykafka.Producer
}

type tokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	AccessExp    time.Time    `json:"access_expires_at"`
	RefreshExp   time.Time    `json:"refresh_expires_at"`
	User         *models.User `json:"user"`
	Roles        []string     `json:"roles"`
}

func pairResponse(res *auth.LoginResult) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp,
		RefreshExp:   res.RefreshExp,
		User:         res.User,
		Roles:        res.Roles,
	}
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email     string `json:"email"      validate:"required,email"`
		Username  string `json:"username"   validate:"required,min=3"`
		Password  string `json:"password"   validate:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	res, err := h.Auth.Register(c.Request().Context(), auth.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, fmt.Sprint(res.User.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return c.JSON(http.StatusCreated, pairResponse(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, fmt.Sprint(res.User.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  res.User.ID,
		"username": res.User.Username,
	})

	return c.JSON(http.StatusOK, pairResponse(res))
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		AccessToken  string `json:"access_token"  validate:"required"`
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	res, err := h.Auth.Refresh(c.Request().Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pairResponse(res))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return errorResponse(c, apperr.ErrInvalidToken)
	}
	if err := h.Auth.Logout(c.Request().Context(), userID); err != nil {
		return errorResponse(c, err)
	}

	h.publish(c, fmt.Sprint(userID), map[string]any{
		"type":    "user_logged_out",
		"user_id": userID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// RevokeToken is the administrative kill switch for one refresh token.
func (h *AuthHandler) RevokeToken(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}
	if err := h.Auth.RevokeToken(c.Request().Context(), req.Token); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "token revoked"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return errorResponse(c, apperr.ErrInvalidToken)
	}
	user, err := h.Auth.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return errorResponse(c, apperr.ErrInvalidToken)
	}

	var req struct {
		Email     string `json:"email"      validate:"omitempty,email"`
		Username  string `json:"username"   validate:"omitempty,min=3"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"   validate:"omitempty,min=8"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, err)
	}

	user, err := h.Auth.UpdateUser(c.Request().Context(), userID, auth.UpdateInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) DeleteMe(c echo.Context) error {
	userID, ok := authmw.UserID(c)
	if !ok {
		return errorResponse(c, apperr.ErrInvalidToken)
	}
	if err := h.Auth.DeleteUser(c.Request().Context(), userID); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
