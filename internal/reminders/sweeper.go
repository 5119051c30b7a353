// Package reminders recorre periódicamente los bebés y publica un aviso por
// cada vacuna que está en ventana (due_now) o vencida (overdue).
package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"baby-health-tracker/internal/domain/babies"
	"baby-health-tracker/internal/domain/vaccines"

	"go.uber.org/zap"
)

// Publisher entrega un mensaje a un tópico. MQTT en producción, log en dev.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type BabyLister interface {
	ListAll(ctx context.Context) ([]babies.Baby, error)
}

type StatusResolver interface {
	Status(ctx context.Context, babyID string, birth, today time.Time) (vaccines.Report, error)
}

// Message es el payload JSON de cada aviso.
type Message struct {
	BabyID      string         `json:"baby_id"`
	BabyName    string         `json:"baby_name"`
	VaccineID   string         `json:"vaccine_id"`
	VaccineName string         `json:"vaccine_name"`
	State       vaccines.State `json:"state"`
	WindowStart string         `json:"window_start"`
	WindowEnd   string         `json:"window_end"`
}

func Topic(parentUserID string) string {
	return "babytracker/" + parentUserID + "/vaccines"
}

type Sweeper struct {
	babies   BabyLister
	statuses StatusResolver
	pub      Publisher
	log      *zap.Logger
	now      func() time.Time
}

func NewSweeper(b BabyLister, s StatusResolver, pub Publisher, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		babies:   b,
		statuses: s,
		pub:      pub,
		log:      log,
		now:      time.Now,
	}
}

// Run barre cada interval hasta que ctx se cancele. interval <= 0 lo desactiva.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		s.log.Info("vaccine reminders disabled")
		return nil
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.log.Warn("reminder sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Sweep hace una pasada y devuelve cuántos avisos publicó. Un bebé o un
// publish con error no corta la pasada.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	list, err := s.babies.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list babies: %w", err)
	}

	today := s.now()
	sent := 0
	for _, b := range list {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		rep, err := s.statuses.Status(ctx, b.ID, b.DateOfBirth, today)
		if err != nil {
			s.log.Warn("resolve vaccine status failed", zap.String("baby_id", b.ID), zap.Error(err))
			continue
		}

		for _, st := range rep.Items {
			if st.State != vaccines.StateDueNow && st.State != vaccines.StateOverdue {
				continue
			}
			payload, _ := json.Marshal(Message{
				BabyID:      b.ID,
				BabyName:    b.Name,
				VaccineID:   st.Vaccine.ID,
				VaccineName: st.Vaccine.Name,
				State:       st.State,
				WindowStart: st.WindowStart.Format("2006-01-02"),
				WindowEnd:   st.WindowEnd.Format("2006-01-02"),
			})
			if err := s.pub.Publish(ctx, Topic(b.ParentUserID), payload); err != nil {
				s.log.Warn("publish reminder failed",
					zap.String("baby_id", b.ID),
					zap.String("vaccine_id", st.Vaccine.ID),
					zap.Error(err),
				)
				continue
			}
			sent++
		}
	}

	s.log.Info("reminder sweep done", zap.Int("babies", len(list)), zap.Int("sent", sent))
	return sent, nil
}

// LogPublisher se usa cuando no hay broker configurado.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("vaccine reminder", zap.String("topic", topic), zap.ByteString("payload", payload))
	return nil
}
