package api

import (
	"context"
	"net/http"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// LoginRequest carries the credentials form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the sign-up form.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the backend's answer to a registration attempt.
type RegisterResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PasswordResetRequest starts the email-based reset flow.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmation completes it with the mailed token.
type PasswordResetConfirmation struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (domain.AuthData, error) {
	var auth domain.AuthData
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &auth, false); err != nil {
		return domain.AuthData{}, err
	}
	return auth, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", req, &resp, false); err != nil {
		return RegisterResponse{}, err
	}
	return resp, nil
}

// SendResetEmail triggers a password-reset mail.
func (c *Client) SendResetEmail(ctx context.Context, req PasswordResetRequest) error {
	return c.do(ctx, http.MethodPost, "/user/reset-password", req, nil, false)
}

// ResetPassword completes the reset with the mailed token.
func (c *Client) ResetPassword(ctx context.Context, req PasswordResetConfirmation) error {
	return c.do(ctx, http.MethodPost, "/user/reset-password-confirmation", req, nil, false)
}
