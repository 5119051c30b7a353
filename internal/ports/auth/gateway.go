package auth

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("auth provider not configured")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRejected      = errors.New("rejected by auth provider")
	ErrUpstream      = errors.New("auth provider upstream error")
)

// Gateway son los flujos de cuenta que delega el servicio al proveedor hospedado.
type Gateway interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	VerifyOTP(ctx context.Context, email, token string) (Session, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
}
