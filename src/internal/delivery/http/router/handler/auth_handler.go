// Package handler 各路由的 HTTP handler。
package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/jackyeh168/gym_crm/src/internal/application/auth"
	appmember "github.com/jackyeh168/gym_crm/src/internal/application/member"
	"github.com/jackyeh168/gym_crm/src/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler 註冊與登入
type AuthHandler struct {
	register appmember.RegisterMemberUseCase
	login    auth.LoginUseCase
}

// NewAuthHandler 建構函數
func NewAuthHandler(register appmember.RegisterMemberUseCase, login auth.LoginUseCase) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
	}
}

// Register 自助註冊，回應附帶 QR code
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.register.Execute(c.Request().Context(), appmember.RegisterMemberCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, RegisterResponse{
		ID:       result.MemberID,
		Username: result.Username,
		Email:    result.Email,
		QRCode:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(result.QRCode),
	}, "Registration successful")
}

// Login 帳密登入
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.login.Execute(c.Request().Context(), auth.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		ID:          result.MemberID,
		Username:    result.Username,
		Role:        result.Role,
	}, "Login successful")
}
