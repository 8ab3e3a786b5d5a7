package api

import (
	"context"
	"errors"
)

// AuthService covers login and registration.
type AuthService service

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a bearer token. The caller decides where
// the token is stored.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	body := loginRequest{Username: username, Password: password}
	if err := s.client.validate.check(body); err != nil {
		return "", err
	}
	var resp AuthResponse
	if err := s.client.post(ctx, "/users/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login: response has no token")
	}
	return resp.Token, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	body := registerRequest{Username: username, Email: email, Password: password}
	if err := s.client.validate.check(body); err != nil {
		return err
	}
	return s.client.post(ctx, "/users/register", body, nil)
}
