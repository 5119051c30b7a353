package measurements

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type RecordInput struct {
	Type  Type
	Value float64
	Date  time.Time
}

// Record guarda una medición. No hay update: se corrige cargando otra.
func (s *Service) Record(ctx context.Context, babyID, actorUserID string, in RecordInput) (Record, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return Record{}, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return Record{}, fmt.Errorf("%w: type must be height, weight or head_circumference", ErrInvalidInput)
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value <= 0 {
		return Record{}, fmt.Errorf("%w: value must be positive", ErrInvalidInput)
	}

	now := s.now()
	if in.Date.IsZero() {
		return Record{}, fmt.Errorf("%w: date required", ErrInvalidInput)
	}
	// a nivel de día: "hoy" siempre se acepta, sea cual sea la zona de la fecha
	if calendarDay(in.Date, now.Location()).After(calendarDay(now, now.Location())) {
		return Record{}, fmt.Errorf("%w: date cannot be in the future", ErrInvalidInput)
	}

	m := Record{
		ID:         uuid.NewString(),
		BabyID:     babyID,
		Type:       in.Type,
		Value:      in.Value,
		Date:       in.Date,
		RecordedBy: strings.TrimSpace(actorUserID),
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Record{}, err
	}

	s.log.Info("measurement recorded",
		zap.String("measurement_id", m.ID),
		zap.String("baby_id", babyID),
		zap.String("type", string(m.Type)),
	)
	return m, nil
}

// List devuelve por fecha descendente. typ vacío = todos los tipos.
func (s *Service) List(ctx context.Context, babyID string, typ Type) ([]Record, error) {
	babyID = strings.TrimSpace(babyID)
	if babyID == "" {
		return nil, ErrInvalidInput
	}
	if typ != "" && !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, typ)
	}

	items, err := s.repo.ListByBaby(ctx, babyID, typ)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Chart agrega un tipo en los buckets del span, terminando hoy.
func (s *Service) Chart(ctx context.Context, babyID string, typ Type, span Span) ([]Bucket, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: type must be height, weight or head_circumference", ErrInvalidInput)
	}
	items, err := s.List(ctx, babyID, typ)
	if err != nil {
		return nil, err
	}
	// Aggregate no mira el tipo
	filtered := items[:0]
	for _, m := range items {
		if m.Type == typ {
			filtered = append(filtered, m)
		}
	}

	out := Aggregate(filtered, span, s.now())
	if out == nil {
		return nil, fmt.Errorf("%w: unknown span %q", ErrInvalidInput, span)
	}
	return out, nil
}
