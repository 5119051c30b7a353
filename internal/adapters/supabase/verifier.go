package supabase

import (
	"context"
	"fmt"
	"strings"

	"baby-health-tracker/internal/ports/auth"
)

// Verifier implementa auth.Verifier preguntándole a GoTrue por el dueño del token.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, auth.ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	u, err := v.client.GetUser(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", err)
	}

	return auth.Claims{
		UserID: u.ID,
		Email:  strings.TrimSpace(u.Email),
	}, nil
}
