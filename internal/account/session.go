// Package account manages the signed-in session: credentials exchange, the
// persisted access token, the remembered email and the user profile.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/backend"
	"github.com/g7food/client/internal/domain"
	"github.com/g7food/client/internal/storage"
	"github.com/g7food/client/internal/validate"
)

// ErrNotLoggedIn indicates an operation that needs a stored access token.
var ErrNotLoggedIn = errors.New("not logged in")

// Form field names used in validation errors.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
)

// Backend is the part of the API the session uses.
type Backend interface {
	Login(ctx context.Context, email, password string) (backend.AuthResponse, error)
	Register(ctx context.Context, r backend.RegisterRequest) (backend.AuthResponse, error)
	CurrentUser(ctx context.Context) (domain.User, error)
	UpdateUser(ctx context.Context, id string, r backend.ProfileUpdateRequest) (domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// TokenStore reads the access token from persistent storage. It is the
// backend.TokenSource handed to the HTTP client.
type TokenStore struct {
	store storage.Store
}

// NewTokenStore creates a TokenStore over store.
func NewTokenStore(store storage.Store) *TokenStore {
	return &TokenStore{store: store}
}

// Token returns the stored access token, or "" when none is stored.
func (t *TokenStore) Token(ctx context.Context) (string, error) {
	token, err := t.store.Get(ctx, storage.KeyAccessToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// Session performs account operations and keeps the persisted session keys in sync.
type Session struct {
	*TokenStore
	backend Backend
	store   storage.Store
}

// NewSession creates a Session.
func NewSession(b Backend, store storage.Store) *Session {
	return &Session{TokenStore: NewTokenStore(store), backend: b, store: store}
}

func fieldErr(field, msg string) error {
	return apperr.InvalidErr(msg, map[string]string{field: msg})
}

// LoggedIn reports whether an access token is stored.
func (s *Session) LoggedIn(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

// Login checks the credentials locally, exchanges them for a token and stores
// it. With remember set the email is kept for the next login form; otherwise
// any remembered email is forgotten.
func (s *Session) Login(ctx context.Context, email, password string, remember bool) (domain.User, error) {
	email = strings.TrimSpace(email)
	if !validate.Email(email) {
		return domain.User{}, fieldErr(FieldEmail, validate.MsgInvalidEmail)
	}
	if password == "" {
		return domain.User{}, fieldErr(FieldPassword, validate.MsgPasswordRequired)
	}

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.store.Set(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
		return domain.User{}, fmt.Errorf("saving access token: %w", err)
	}
	if err := s.SetRememberMe(ctx, remember, email); err != nil {
		slog.Warn("updating remembered email", "error", err)
	}

	slog.Info("logged in", "email", email)
	if resp.User != nil {
		return resp.User.ToUser(), nil
	}
	return domain.User{Email: email}, nil
}

// Register validates form, creates the account and stores the returned token.
func (s *Session) Register(ctx context.Context, form validate.Registration) (domain.User, error) {
	form = form.Trimmed()
	if err := validate.Form(form); err != nil {
		return domain.User{}, err
	}

	resp, err := s.backend.Register(ctx, backend.RegisterRequest{
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Address:   form.Address,
	})
	if err != nil {
		return domain.User{}, err
	}
	if err := s.store.Set(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
		return domain.User{}, fmt.Errorf("saving access token: %w", err)
	}

	slog.Info("registered", "email", form.Email)
	if resp.User != nil {
		return resp.User.ToUser(), nil
	}
	return domain.User{
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Address:   form.Address,
	}, nil
}

// Logout forgets the access token and all cached wallet data. The remembered email
// survives. Storage failures are logged; logging out always succeeds.
func (s *Session) Logout(ctx context.Context) {
	for _, key := range []string{storage.KeyAccessToken, storage.KeyWalletSnapshot, storage.KeyWalletRequests} {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("clearing session key", "key", key, "error", err)
		}
	}
	slog.Info("logged out")
}

// RememberedEmail returns the email saved by a login with remember set, or "".
func (s *Session) RememberedEmail(ctx context.Context) string {
	email, err := s.store.Get(ctx, storage.KeyRememberedEmail)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("reading remembered email", "error", err)
		}
		return ""
	}
	return email
}

// SetRememberMe stores email when remember is set and clears it otherwise.
func (s *Session) SetRememberMe(ctx context.Context, remember bool, email string) error {
	if !remember {
		return s.store.Delete(ctx, storage.KeyRememberedEmail)
	}
	return s.store.Set(ctx, storage.KeyRememberedEmail, email)
}

// Profile fetches the signed-in user.
func (s *Session) Profile(ctx context.Context) (domain.User, error) {
	if !s.LoggedIn(ctx) {
		return domain.User{}, ErrNotLoggedIn
	}
	return s.backend.CurrentUser(ctx)
}

// UpdateProfile validates form and saves it on the signed-in user.
func (s *Session) UpdateProfile(ctx context.Context, form validate.ProfileUpdate) (domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validate.Form(form); err != nil {
		return domain.User{}, err
	}

	current, err := s.Profile(ctx)
	if err != nil {
		return domain.User{}, err
	}
	updated, err := s.backend.UpdateUser(ctx, current.ID, backend.ProfileUpdateRequest{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Phone:     strings.TrimSpace(form.Phone),
		Email:     form.Email,
	})
	if err != nil {
		return domain.User{}, err
	}
	if updated.Address == "" {
		updated.Address = current.Address
	}
	return updated, nil
}

// RequestPasswordReset asks the backend to email a reset token to email.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !validate.Email(email) {
		return fieldErr(FieldEmail, validate.MsgInvalidEmail)
	}
	return s.backend.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset sets newPassword using the emailed token.
func (s *Session) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fieldErr(FieldToken, "Reset code is required")
	}
	if msg := validate.PasswordProblem(newPassword); msg != "" {
		return fieldErr(FieldPassword, msg)
	}
	return s.backend.ConfirmPasswordReset(ctx, token, newPassword)
}
