package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
)

// Toast is an outcome waiting to be shown by the UI.
type Toast struct {
	outcome.Outcome
	At time.Time `json:"at"`
}

// Inbox buffers toasts in delivery order until the UI drains them.
// When full, the oldest toast is dropped.
type Inbox struct {
	mu       sync.Mutex
	capacity int
	now      func() time.Time
	toasts   []Toast
}

// NewInbox returns an inbox holding at most capacity toasts.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = 100
	}
	return &Inbox{capacity: capacity, now: time.Now}
}

// Present implements ports.Presenter.
func (b *Inbox) Present(_ context.Context, o outcome.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.toasts) == b.capacity {
		b.toasts = b.toasts[1:]
	}
	b.toasts = append(b.toasts, Toast{Outcome: o, At: b.now()})
}

// Drain returns and clears pending toasts, oldest first.
func (b *Inbox) Drain() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.toasts
	b.toasts = nil
	if out == nil {
		return []Toast{}
	}
	return out
}

// LogPresenter writes each outcome to a structured logger.
type LogPresenter struct {
	Logger *slog.Logger
}

// Present implements ports.Presenter.
func (p LogPresenter) Present(ctx context.Context, o outcome.Outcome) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if !o.IsSuccess() {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "notification", "code", o.Code, "kind", o.Kind, "message", o.Message)
}
