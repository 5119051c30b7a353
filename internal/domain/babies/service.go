package babies

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"baby-health-tracker/internal/domain/caregivers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("baby not found")
	ErrForbidden    = errors.New("forbidden")
)

// Grants es lo que babies necesita de caregivers.
type Grants interface {
	Allows(ctx context.Context, babyID, userID string, scope caregivers.Scope) bool
	ListByCaregiver(ctx context.Context, caregiverUserID string) ([]caregivers.Grant, error)
}

type Service struct {
	repo   Repository
	grants Grants
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, grants Grants, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		grants: grants,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name        string
	DateOfBirth time.Time
	Gender      Gender
}

func (s *Service) Create(ctx context.Context, parentUserID string, in CreateInput) (Baby, error) {
	parentUserID = strings.TrimSpace(parentUserID)
	if parentUserID == "" {
		return Baby{}, ErrInvalidInput
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Baby{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	now := s.now()
	dob, err := s.checkBirth(in.DateOfBirth, now)
	if err != nil {
		return Baby{}, err
	}

	gender := in.Gender
	if gender == "" {
		gender = GenderUnknown
	}
	if !gender.valid() {
		return Baby{}, fmt.Errorf("%w: gender must be male, female or unknown", ErrInvalidInput)
	}

	b := Baby{
		ID:           uuid.NewString(),
		ParentUserID: parentUserID,
		Name:         name,
		DateOfBirth:  dob,
		Gender:       gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Baby{}, err
	}

	s.log.Info("baby created", zap.String("baby_id", b.ID), zap.String("parent_user_id", parentUserID))
	return b, nil
}

// UpdateInput usa punteros: nil = no tocar.
type UpdateInput struct {
	Name        *string
	DateOfBirth *time.Time
	Gender      *Gender
}

func (s *Service) Update(ctx context.Context, babyID string, in UpdateInput) (Baby, error) {
	b, err := s.GetByID(ctx, babyID)
	if err != nil {
		return Baby{}, err
	}

	now := s.now()
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Baby{}, fmt.Errorf("%w: name required", ErrInvalidInput)
		}
		b.Name = name
	}
	if in.DateOfBirth != nil {
		dob, err := s.checkBirth(*in.DateOfBirth, now)
		if err != nil {
			return Baby{}, err
		}
		b.DateOfBirth = dob
	}
	if in.Gender != nil {
		if !in.Gender.valid() {
			return Baby{}, fmt.Errorf("%w: gender must be male, female or unknown", ErrInvalidInput)
		}
		b.Gender = *in.Gender
	}

	b.UpdatedAt = now
	if err := s.repo.Update(ctx, b); err != nil {
		return Baby{}, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Baby, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Baby{}, ErrNotFound
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Baby{}, ErrNotFound
		}
		return Baby{}, fmt.Errorf("get baby: %w", err)
	}
	return b, nil
}

// OwnerOf satisface caregivers.BabyOwnerLookup.
func (s *Service) OwnerOf(ctx context.Context, babyID string) (string, error) {
	b, err := s.GetByID(ctx, babyID)
	if err != nil {
		return "", err
	}
	return b.ParentUserID, nil
}

// Authorize devuelve el bebé si userID es el parent (bypass) o tiene un
// grant activo con scope.
func (s *Service) Authorize(ctx context.Context, babyID, userID string, scope caregivers.Scope) (Baby, error) {
	b, err := s.GetByID(ctx, babyID)
	if err != nil {
		return Baby{}, err
	}
	if b.ParentUserID == userID {
		return b, nil
	}
	if s.grants == nil || !s.grants.Allows(ctx, babyID, userID, scope) {
		return Baby{}, ErrForbidden
	}
	return b, nil
}

// Listed es un bebé visible para el usuario, propio o compartido.
type Listed struct {
	Baby   Baby
	Role   Role
	Scopes []caregivers.Scope // sólo para caregiver
}

// ListForUser devuelve propios primero y luego compartidos con baby:read.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Listed, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	own, err := s.repo.ListByParent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list babies: %w", err)
	}
	sortByCreated(own)

	out := make([]Listed, 0, len(own))
	for _, b := range own {
		out = append(out, Listed{Baby: b, Role: RoleParent})
	}

	if s.grants == nil {
		return out, nil
	}

	grants, err := s.grants.ListByCaregiver(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	seen := map[string]struct{}{}
	for _, g := range grants {
		if g.Status != caregivers.StatusActive || !g.HasScope(caregivers.ScopeBabyRead) {
			continue
		}
		if _, ok := seen[g.BabyID]; ok {
			continue
		}
		seen[g.BabyID] = struct{}{}

		b, err := s.repo.GetByID(ctx, g.BabyID)
		if err != nil {
			// grant huérfano
			continue
		}
		out = append(out, Listed{Baby: b, Role: RoleCaregiver, Scopes: g.Scopes})
	}
	return out, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Baby, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list babies: %w", err)
	}
	sortByCreated(items)
	return items, nil
}

func (s *Service) checkBirth(dob time.Time, now time.Time) (time.Time, error) {
	if dob.IsZero() {
		return time.Time{}, fmt.Errorf("%w: date_of_birth required", ErrInvalidInput)
	}
	day := time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return time.Time{}, fmt.Errorf("%w: date_of_birth cannot be in the future", ErrInvalidInput)
	}
	return day, nil
}

func sortByCreated(items []Baby) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
