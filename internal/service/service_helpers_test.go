package service

import (
	"sync"
	"time"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
)

type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []outcome.Outcome
}

func (r *recordingNotifier) Notify(o outcome.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingNotifier) codes() []outcome.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]outcome.Code, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o.Code)
	}
	return out
}

type countingSink struct {
	mu     sync.Mutex
	counts []map[string]string
}

func (s *countingSink) Count(_ string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, tags)
}

func (s *countingSink) Timing(string, time.Duration, map[string]string) {}

func (s *countingSink) results() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.counts))
	for _, tags := range s.counts {
		out = append(out, tags["flow"]+":"+tags["result"])
	}
	return out
}
