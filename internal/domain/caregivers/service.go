package caregivers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

type InviteInput struct {
	BabyID          string
	OwnerUserID     string
	CaregiverUserID string
	Scopes          []Scope
}

// Invite crea una invitación, o actualiza scopes si ya hay una viva para
// (baby, owner, caregiver). Una revocada no se reabre: se crea otra.
func (s *Service) Invite(ctx context.Context, in InviteInput) (Grant, error) {
	babyID := strings.TrimSpace(in.BabyID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	caregiverID := strings.TrimSpace(in.CaregiverUserID)

	if babyID == "" || ownerID == "" || caregiverID == "" || ownerID == caregiverID {
		return Grant{}, ErrInvalidInput
	}

	scopes := DefaultScopes
	if len(in.Scopes) > 0 {
		var err error
		scopes, err = normalizeScopes(in.Scopes)
		if err != nil {
			return Grant{}, err
		}
	}

	now := s.now()

	matches, err := s.matching(ctx, babyID, caregiverID)
	if err != nil {
		return Grant{}, err
	}

	if winner, ok := latestLive(matches, ownerID); ok {
		winner.Scopes = scopes
		winner.UpdatedAt = now
		if err := s.repo.Update(ctx, winner); err != nil {
			return Grant{}, err
		}
		s.revokeOthers(ctx, winner.ID, matches, now)
		return winner, nil
	}

	g := Grant{
		ID:              uuid.NewString(),
		BabyID:          babyID,
		OwnerUserID:     ownerID,
		CaregiverUserID: caregiverID,
		Scopes:          scopes,
		Status:          StatusInvited,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}

	s.log.Info("caregiver invited",
		zap.String("grant_id", g.ID),
		zap.String("baby_id", babyID),
		zap.String("caregiver_user_id", caregiverID),
	)
	return g, nil
}

// Accept activa la invitación. Idempotente. Deja un único grant activo
// para (baby, caregiver): cualquier otro vivo se revoca.
func (s *Service) Accept(ctx context.Context, grantID, caregiverUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if grantID == "" || caregiverUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.CaregiverUserID != caregiverUserID {
		return Grant{}, ErrForbidden
	}

	switch g.Status {
	case StatusActive:
		return g, nil
	case StatusInvited:
	default:
		return Grant{}, ErrBadState
	}

	now := s.now()
	g.Status = StatusActive
	g.UpdatedAt = now
	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}

	if matches, err := s.matching(ctx, g.BabyID, g.CaregiverUserID); err == nil {
		s.revokeOthers(ctx, g.ID, matches, now)
	}
	return g, nil
}

// Revoke la ejecuta el owner. Idempotente.
func (s *Service) Revoke(ctx context.Context, grantID, ownerUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if grantID == "" || ownerUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.OwnerUserID != ownerUserID {
		return Grant{}, ErrForbidden
	}
	if g.Status == StatusRevoked {
		return g, nil
	}

	now := s.now()
	g.Status = StatusRevoked
	g.UpdatedAt = now
	g.RevokedAt = &now
	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) ListByBaby(ctx context.Context, babyID string) ([]Grant, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByBaby(ctx, babyID)
}

func (s *Service) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]Grant, error) {
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if caregiverUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCaregiver(ctx, caregiverUserID)
}

// ActiveGrant devuelve el grant activo más reciente de caregiver sobre baby.
func (s *Service) ActiveGrant(ctx context.Context, babyID, caregiverUserID string) (Grant, error) {
	matches, err := s.matching(ctx, strings.TrimSpace(babyID), strings.TrimSpace(caregiverUserID))
	if err != nil {
		return Grant{}, err
	}

	var winner Grant
	found := false
	for _, g := range matches {
		if g.Status != StatusActive {
			continue
		}
		if !found || g.UpdatedAt.After(winner.UpdatedAt) ||
			(g.UpdatedAt.Equal(winner.UpdatedAt) && g.CreatedAt.After(winner.CreatedAt)) {
			winner = g
			found = true
		}
	}
	if !found {
		return Grant{}, ErrNotFound
	}
	return winner, nil
}

// Allows responde si userID tiene un grant activo con scope sobre babyID.
func (s *Service) Allows(ctx context.Context, babyID, userID string, scope Scope) bool {
	g, err := s.ActiveGrant(ctx, babyID, userID)
	return err == nil && g.HasScope(scope)
}

func (s *Service) matching(ctx context.Context, babyID, caregiverID string) ([]Grant, error) {
	if babyID == "" || caregiverID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByBaby(ctx, babyID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	out := make([]Grant, 0, len(items))
	for _, g := range items {
		if g.CaregiverUserID == caregiverID {
			out = append(out, g)
		}
	}
	return out, nil
}

func latestLive(matches []Grant, ownerID string) (Grant, bool) {
	var winner Grant
	found := false
	for _, g := range matches {
		if g.OwnerUserID != ownerID || !g.live() {
			continue
		}
		if !found || g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
			found = true
		}
	}
	return winner, found
}

// revokeOthers es best-effort: un fallo acá no invalida la operación principal.
func (s *Service) revokeOthers(ctx context.Context, keepID string, matches []Grant, now time.Time) {
	for _, g := range matches {
		if g.ID == keepID || !g.live() {
			continue
		}
		g.Status = StatusRevoked
		g.UpdatedAt = now
		g.RevokedAt = &now
		if err := s.repo.Update(ctx, g); err != nil {
			s.log.Warn("revoke duplicate grant failed", zap.String("grant_id", g.ID), zap.Error(err))
		}
	}
}

func normalizeScopes(in []Scope) ([]Scope, error) {
	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		sc := Scope(strings.TrimSpace(string(raw)))
		if sc == "" {
			continue
		}
		if _, ok := knownScopes[sc]; !ok {
			return nil, ErrInvalidInput
		}
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, ErrInvalidInput
	}
	return out, nil
}
