package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingPresenter struct {
	mu    sync.Mutex
	codes []outcome.Code
}

func (r *recordingPresenter) Present(_ context.Context, o outcome.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, o.Code)
}

func (r *recordingPresenter) snapshot() []outcome.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outcome.Code(nil), r.codes...)
}

// blockingPresenter holds the worker inside Present until released.
type blockingPresenter struct {
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingPresenter) Present(context.Context, outcome.Outcome) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
}

func startService(t *testing.T, opts Options) *Service {
	t.Helper()
	svc := NewService(opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return svc
}

func TestService_DeliversInOrder(t *testing.T) {
	rec := &recordingPresenter{}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Name: "rec", Presenter: rec}}})

	codes := []string{"S001", "E001", "S002", "E000", "S013"}
	for _, c := range codes {
		svc.Notify(outcome.Translate(c))
	}

	want := []outcome.Code{"S001", "E001", "S002", "E000", "S013"}
	assert.Eventually(t, func() bool { return assert.ObjectsAreEqual(want, rec.snapshot()) }, time.Second, 5*time.Millisecond)
}

func TestService_DoesNotDeduplicatePlainNotify(t *testing.T) {
	rec := &recordingPresenter{}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Presenter: rec}}})

	svc.Notify(outcome.Translate("S005"))
	svc.Notify(outcome.Translate("S005"))

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestService_NotifyDoesNotBlockOnSlowPresenter(t *testing.T) {
	slow := &blockingPresenter{release: make(chan struct{}), entered: make(chan struct{})}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Presenter: slow}}})
	defer close(slow.release)

	svc.Notify(outcome.Translate("S001"))
	<-slow.entered

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			svc.Notify(outcome.Translate("S002"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked while presenter was busy")
	}
}

func TestScope_NotifyOnce(t *testing.T) {
	rec := &recordingPresenter{}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Presenter: rec}}})

	scope := svc.NewScope("medications")
	scope.NotifyOnce("fetched", outcome.Translate("S005"))
	scope.NotifyOnce("fetched", outcome.Translate("S005"))
	scope.NotifyOnce("deleted", outcome.Translate("S008"))
	scope.Notify(outcome.Translate("S005"))

	want := []outcome.Code{"S005", "S008", "S005"}
	assert.Eventually(t, func() bool { return assert.ObjectsAreEqual(want, rec.snapshot()) }, time.Second, 5*time.Millisecond)
}

func TestScope_SeparateLifetimesDoNotCollide(t *testing.T) {
	rec := &recordingPresenter{}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Presenter: rec}}})

	first := svc.NewScope("aggregate")
	second := svc.NewScope("aggregate")
	require.NotEqual(t, first.Key("fetched"), second.Key("fetched"))

	first.NotifyOnce("fetched", outcome.Translate("S013"))
	second.NotifyOnce("fetched", outcome.Translate("S013"))

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestScope_LedgerErrorFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockOnceLedger(ctrl)
	rec := &recordingPresenter{}
	svc := startService(t, Options{
		Presenters: []PresenterRegistration{{Presenter: rec}},
		Ledger:     ledger,
		OnceTTL:    time.Minute,
	})
	scope := svc.NewScope("login")

	ledger.EXPECT().Seen(gomock.Any(), scope.Key("submit"), time.Minute).Return(false, errors.New("redis down"))

	scope.NotifyOnce("submit", outcome.Translate("E001"))
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestScope_LedgerSeenSuppresses(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockOnceLedger(ctrl)
	rec := &recordingPresenter{}
	svc := startService(t, Options{Presenters: []PresenterRegistration{{Presenter: rec}}, Ledger: ledger})
	scope := svc.NewScope("register")

	gomock.InOrder(
		ledger.EXPECT().Seen(gomock.Any(), scope.Key("done"), DefaultOnceTTL).Return(true, nil),
		ledger.EXPECT().Seen(gomock.Any(), scope.Key("other"), DefaultOnceTTL).Return(false, nil),
	)

	scope.NotifyOnce("done", outcome.Translate("S003"))
	scope.NotifyOnce("other", outcome.Translate("S002"))

	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]outcome.Code{"S002"}, rec.snapshot())
	}, time.Second, 5*time.Millisecond)
}

func TestService_RunFlushesOnShutdown(t *testing.T) {
	rec := &recordingPresenter{}
	svc := NewService(Options{Presenters: []PresenterRegistration{{Presenter: rec}}})

	svc.Notify(outcome.Translate("S001"))
	svc.Notify(outcome.Translate("S002"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Run(ctx))

	assert.Equal(t, []outcome.Code{"S001", "S002"}, rec.snapshot())

	// Closed services drop new submissions.
	svc.Notify(outcome.Translate("S003"))
	assert.Len(t, rec.snapshot(), 2)
}

func TestNewService_SkipsNilPresenters(t *testing.T) {
	svc := NewService(Options{Presenters: []PresenterRegistration{{Name: "nil"}, {Presenter: &recordingPresenter{}}}})
	require.Len(t, svc.presenters, 1)
	assert.Equal(t, "presenter", svc.presenters[0].Name)
}
