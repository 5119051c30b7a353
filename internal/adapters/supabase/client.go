package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"baby-health-tracker/internal/platform/httpclient"
	"baby-health-tracker/internal/ports/auth"
)

// Config del cliente Supabase (GoTrue para auth, PostgREST para tablas).
type Config struct {
	URL        string
	AnonKey    string
	ServiceKey string // opcional; si está vacío las tablas usan AnonKey

	Timeout time.Duration
}

// Client es el Remote Data Gateway: auth + CRUD de tablas sobre el backend hospedado.
// No reintenta: un request por operación, el error sube tal cual al caller.
type Client struct {
	http       *httpclient.Client
	anonKey    string
	serviceKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:       hc,
		anonKey:    strings.TrimSpace(cfg.AnonKey),
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.anonKey != ""
}

func (c *Client) authHeaders(bearer string) map[string]string {
	if bearer == "" {
		bearer = c.anonKey
	}
	return map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + bearer,
	}
}

// sessionPayload cubre las dos formas de respuesta de GoTrue:
// session completa ({access_token, user}) o user suelto (signup con confirmación por email).
type sessionPayload struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int        `json:"expires_in"`
	User         *auth.User `json:"user"`

	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

func (p sessionPayload) toSession() auth.Session {
	s := auth.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
	}
	if p.User != nil {
		s.User = *p.User
	} else {
		s.User = auth.User{ID: p.ID, Email: p.Email, EmailConfirmedAt: p.EmailConfirmedAt}
	}
	return s
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	return c.sessionCall(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	return c.sessionCall(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

func (c *Client) VerifyOTP(ctx context.Context, email, token string) (auth.Session, error) {
	return c.sessionCall(ctx, "/auth/v1/verify", map[string]string{
		"type":  "email",
		"email": email,
		"token": token,
	})
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	if !c.IsConfigured() {
		return auth.ErrNotConfigured
	}
	err := c.http.DoJSON(ctx, http.MethodPost, "/auth/v1/recover", c.authHeaders(""), map[string]string{"email": email}, nil)
	return mapAuthError(err)
}

// GetUser resuelve el usuario dueño de un access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (auth.User, error) {
	if !c.IsConfigured() {
		return auth.User{}, auth.ErrNotConfigured
	}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return auth.User{}, auth.ErrUnauthorized
	}

	var out auth.User
	if err := c.http.DoJSON(ctx, http.MethodGet, "/auth/v1/user", c.authHeaders(accessToken), nil, &out); err != nil {
		return auth.User{}, mapAuthError(err)
	}
	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.User{}, fmt.Errorf("%w: response missing user id", auth.ErrUpstream)
	}
	return out, nil
}

func (c *Client) sessionCall(ctx context.Context, path string, body any) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, auth.ErrNotConfigured
	}
	var out sessionPayload
	if err := c.http.DoJSON(ctx, http.MethodPost, path, c.authHeaders(""), body, &out); err != nil {
		return auth.Session{}, mapAuthError(err)
	}
	return out.toSession(), nil
}

func mapAuthError(err error) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return fmt.Errorf("%w: %v", auth.ErrUpstream, err)
	}
	switch he.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return auth.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", auth.ErrRejected, he.Body)
	default:
		return fmt.Errorf("%w: status=%d", auth.ErrUpstream, he.StatusCode)
	}
}
