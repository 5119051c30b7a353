package vaccines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("schedule not found")
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

type ScheduleInput struct {
	VaccineID string
	Hospital  string
	Location  string
	Date      time.Time
}

func (s *Service) Schedule(ctx context.Context, babyID string, in ScheduleInput) (Schedule, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return Schedule{}, ErrInvalidInput
	}
	vaccineID := strings.TrimSpace(in.VaccineID)
	if _, ok := Lookup(vaccineID); !ok {
		return Schedule{}, fmt.Errorf("%w: unknown vaccine_id %q", ErrInvalidInput, vaccineID)
	}
	if in.Date.IsZero() {
		return Schedule{}, fmt.Errorf("%w: date required", ErrInvalidInput)
	}

	now := s.now()
	sc := Schedule{
		ID:        uuid.NewString(),
		BabyID:    babyID,
		VaccineID: vaccineID,
		Hospital:  strings.TrimSpace(in.Hospital),
		Location:  strings.TrimSpace(in.Location),
		Date:      in.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return Schedule{}, err
	}

	s.log.Info("vaccine scheduled",
		zap.String("schedule_id", sc.ID),
		zap.String("baby_id", babyID),
		zap.String("vaccine_id", vaccineID),
	)
	return sc, nil
}

// RescheduleInput usa punteros: nil = no tocar.
type RescheduleInput struct {
	Hospital *string
	Location *string
	Date     *time.Time
}

// Reschedule sólo aplica a schedules pendientes.
func (s *Service) Reschedule(ctx context.Context, babyID, scheduleID string, in RescheduleInput) (Schedule, error) {
	sc, err := s.get(ctx, babyID, scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	if sc.IsAdministered {
		return Schedule{}, fmt.Errorf("%w: already administered", ErrBadState)
	}

	if in.Hospital != nil {
		sc.Hospital = strings.TrimSpace(*in.Hospital)
	}
	if in.Location != nil {
		sc.Location = strings.TrimSpace(*in.Location)
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return Schedule{}, fmt.Errorf("%w: date required", ErrInvalidInput)
		}
		sc.Date = *in.Date
	}

	sc.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}
	return sc, nil
}

// Administer marca el schedule como aplicado. Idempotente.
func (s *Service) Administer(ctx context.Context, babyID, scheduleID string) (Schedule, error) {
	sc, err := s.get(ctx, babyID, scheduleID)
	if err != nil {
		return Schedule{}, err
	}
	if sc.IsAdministered {
		return sc, nil
	}

	now := s.now()
	sc.IsAdministered = true
	sc.AdministeredAt = &now
	sc.UpdatedAt = now
	if err := s.repo.Update(ctx, sc); err != nil {
		return Schedule{}, err
	}

	s.log.Info("vaccine administered", zap.String("schedule_id", sc.ID), zap.String("baby_id", sc.BabyID))
	return sc, nil
}

// Remove es el borrado explícito ("remove record").
func (s *Service) Remove(ctx context.Context, babyID, scheduleID string) error {
	if _, err := s.get(ctx, babyID, scheduleID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, babyID, scheduleID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// List devuelve los schedules del bebé por fecha ascendente.
func (s *Service) List(ctx context.Context, babyID string) ([]Schedule, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByBaby(ctx, babyID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// Status resuelve el catálogo completo para el bebé. today cero => ahora.
func (s *Service) Status(ctx context.Context, babyID string, birth, today time.Time) (Report, error) {
	items, err := s.List(ctx, babyID)
	if err != nil {
		return Report{}, err
	}
	if today.IsZero() {
		today = s.now()
	}
	return Resolve(birth, Catalog(), items, today), nil
}

func (s *Service) get(ctx context.Context, babyID, scheduleID string) (Schedule, error) {
	babyID = strings.TrimSpace(babyID)
	scheduleID = strings.TrimSpace(scheduleID)
	if babyID == "" || scheduleID == "" {
		return Schedule{}, ErrNotFound
	}
	sc, err := s.repo.GetByID(ctx, babyID, scheduleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Schedule{}, ErrNotFound
		}
		return Schedule{}, fmt.Errorf("get schedule: %w", err)
	}
	return sc, nil
}
