package bus

import (
	"context"

	"github.com/yungbote/partnerhub-backend/internal/realtime"
)

type Publisher interface {
	Publish(ctx context.Context, evt realtime.Event) error
	Close() error
}

type noop struct{}

// Noop discards every event. Used when no Redis address is configured.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, realtime.Event) error { return nil }
func (noop) Close() error                                  { return nil }
