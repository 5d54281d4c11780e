package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/google/uuid"
)

// DefaultOnceTTL bounds how long a once-key is remembered when no TTL is configured.
const DefaultOnceTTL = 24 * time.Hour

// PresenterRegistration pairs a presenter with a name for logging.
type PresenterRegistration struct {
	Name      string
	Presenter ports.Presenter
}

// Options configures the notification service.
type Options struct {
	Logger     *slog.Logger
	Presenters []PresenterRegistration
	// Ledger backs NotifyOnce. Defaults to an in-process MemoryLedger.
	Ledger  ports.OnceLedger
	OnceTTL time.Duration
}

type item struct {
	outcome outcome.Outcome
	onceKey string
}

// Service queues outcomes and delivers them in submission order from a single worker.
// Notify never blocks the caller. The service itself does not deduplicate; callers that
// want one-time delivery use a Scope.
type Service struct {
	logger     *slog.Logger
	presenters []PresenterRegistration
	ledger     ports.OnceLedger
	onceTTL    time.Duration

	mu     sync.Mutex
	queue  []item
	wake   chan struct{}
	closed bool
}

// NewService constructs a notification service. Call Run to start delivery.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "notifier")
	}

	var presenters []PresenterRegistration
	for _, entry := range opts.Presenters {
		if entry.Presenter == nil {
			continue
		}
		if entry.Name == "" {
			entry.Name = "presenter"
		}
		presenters = append(presenters, entry)
	}

	ledger := opts.Ledger
	if ledger == nil {
		ledger = NewMemoryLedger(MemoryLedgerConfig{})
	}

	ttl := opts.OnceTTL
	if ttl <= 0 {
		ttl = DefaultOnceTTL
	}

	return &Service{
		logger:     logger,
		presenters: presenters,
		ledger:     ledger,
		onceTTL:    ttl,
		wake:       make(chan struct{}, 1),
	}
}

// Notify enqueues o for delivery.
func (s *Service) Notify(o outcome.Outcome) {
	s.enqueue(item{outcome: o})
}

// NewScope returns a dedup scope for one component lifetime. Keys are namespaced with
// component and a random scope id, so two mounts of the same component do not collide.
func (s *Service) NewScope(component string) *Scope {
	return &Scope{svc: s, prefix: "notify:once:" + component + ":" + uuid.NewString() + ":"}
}

func (s *Service) enqueue(it item) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, it)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run delivers queued outcomes until ctx is done. Items still queued at that point are
// flushed before Run returns.
func (s *Service) Run(ctx context.Context) error {
	for {
		s.drain(ctx)
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			s.drain(context.WithoutCancel(ctx))
			return nil
		case <-s.wake:
		}
	}
}

func (s *Service) drain(ctx context.Context) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		it := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(ctx, it)
	}
}

func (s *Service) deliver(ctx context.Context, it item) {
	if it.onceKey != "" {
		seen, err := s.ledger.Seen(ctx, it.onceKey, s.onceTTL)
		if err != nil {
			// Fail open: deliver when the ledger cannot answer.
			s.logger.WarnContext(ctx, "once ledger unavailable, delivering anyway", "key", it.onceKey, "error", err)
		} else if seen {
			s.logger.DebugContext(ctx, "suppressing repeated notification", "key", it.onceKey, "code", it.outcome.Code)
			return
		}
	}

	for _, entry := range s.presenters {
		entry.Presenter.Present(ctx, it.outcome)
	}
}

// Scope deduplicates notifications by operation identity within one component lifetime.
type Scope struct {
	svc    *Service
	prefix string
}

// Notify enqueues o without deduplication.
func (sc *Scope) Notify(o outcome.Outcome) { sc.svc.Notify(o) }

// NotifyOnce enqueues o unless an outcome was already delivered for op in this scope.
func (sc *Scope) NotifyOnce(op string, o outcome.Outcome) {
	sc.svc.enqueue(item{outcome: o, onceKey: sc.prefix + op})
}

// Key returns the ledger key used for op. Exposed for tests and logging.
func (sc *Scope) Key(op string) string { return sc.prefix + op }
