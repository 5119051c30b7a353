package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("post not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	maxBodyLen   = 2000
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

func (s *Service) Create(ctx context.Context, authorUserID, body string) (Post, error) {
	authorUserID = strings.TrimSpace(authorUserID)
	body = strings.TrimSpace(body)
	if authorUserID == "" {
		return Post{}, ErrInvalidInput
	}
	if body == "" {
		return Post{}, fmt.Errorf("%w: body required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return Post{}, fmt.Errorf("%w: body too long (max %d)", ErrInvalidInput, maxBodyLen)
	}

	p := Post{
		ID:           uuid.NewString(),
		AuthorUserID: authorUserID,
		Body:         body,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// List: limit 0 => DefaultLimit; fuera de 1..MaxLimit => ErrInvalidInput.
func (s *Service) List(ctx context.Context, limit int) ([]Post, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}
	items, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return items, nil
}

// Delete sólo lo puede hacer el autor.
func (s *Service) Delete(ctx context.Context, postID, userID string) error {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(postID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get post: %w", err)
	}
	if p.AuthorUserID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info("post deleted", zap.String("post_id", p.ID))
	return nil
}
