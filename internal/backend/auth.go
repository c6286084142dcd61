package backend

import (
	"context"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/domain"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.AccessToken == "" {
		return AuthResponse{}, apperr.MalformedErr("", errMissing("accessToken"))
	}
	return resp, nil
}

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/register", r, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.AccessToken == "" {
		return AuthResponse{}, apperr.MalformedErr("", errMissing("accessToken"))
	}
	return resp, nil
}

// RequestPasswordReset asks the backend to email a reset token.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/password/reset-request", resetRequest{Email: email}, nil)
}

// ConfirmPasswordReset sets a new password using the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.post(ctx, "/auth/password/reset-confirm", resetConfirm{Token: token, NewPassword: newPassword}, nil)
}

// ToUser converts the wire user into the domain type.
func (u UserPayload) ToUser() domain.User {
	return domain.User{
		ID:        string(u.ID),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
	}
}
