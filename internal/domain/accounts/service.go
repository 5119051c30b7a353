package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-health-tracker/internal/platform/kv"
	"baby-health-tracker/internal/ports/auth"

	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

const minPasswordLen = 6

// Service delega los flujos de cuenta al proveedor hospedado. Sólo valida
// la forma del input y guarda cuándo se verificó el OTP de cada email.
type Service struct {
	gw    auth.Gateway
	store kv.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(gw auth.Gateway, store kv.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		gw:    gw,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func otpKey(email string) string { return "otp_verified_at:" + email }

func (s *Service) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	email, err := credentials(email, password)
	if err != nil {
		return auth.Session{}, err
	}
	if s.gw == nil {
		return auth.Session{}, auth.ErrNotConfigured
	}
	sess, err := s.gw.SignUp(ctx, email, password)
	if err != nil {
		s.log.Warn("sign up failed", zap.String("email", email), zap.Error(err))
		return auth.Session{}, err
	}
	s.log.Info("account signed up", zap.String("user_id", sess.User.ID))
	return sess, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	email, err := credentials(email, password)
	if err != nil {
		return auth.Session{}, err
	}
	if s.gw == nil {
		return auth.Session{}, auth.ErrNotConfigured
	}
	return s.gw.SignIn(ctx, email, password)
}

// VerifyOTP confirma el código y guarda el timestamp en otp_verified_at:<email>.
func (s *Service) VerifyOTP(ctx context.Context, email, token string) (auth.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return auth.Session{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Session{}, fmt.Errorf("%w: token required", ErrInvalidInput)
	}
	if s.gw == nil {
		return auth.Session{}, auth.ErrNotConfigured
	}

	sess, err := s.gw.VerifyOTP(ctx, email, token)
	if err != nil {
		return auth.Session{}, err
	}

	if s.store != nil {
		at := s.now().UTC().Format(time.RFC3339)
		if err := s.store.Set(ctx, otpKey(email), at, 0); err != nil {
			// el OTP ya se consumió upstream; no lo reportamos como fallo
			s.log.Warn("store otp verification failed", zap.String("email", email), zap.Error(err))
		}
	}
	return sess, nil
}

func (s *Service) ResetPasswordForEmail(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if s.gw == nil {
		return auth.ErrNotConfigured
	}
	return s.gw.ResetPasswordForEmail(ctx, email)
}

func credentials(email, password string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	return email, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}
