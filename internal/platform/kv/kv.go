package kv

import (
	"context"
	"errors"
	"time"
)

// ErrMiss indica que la key no existe (o expiró).
var ErrMiss = errors.New("kv: miss")

// Store es el estado persistido del proceso (preferencias, caches chicos).
// No hay política de evicción: una entrada vive hasta que se sobreescribe,
// se borra o vence su ttl (ttl <= 0 => sin vencimiento).
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
