package metrics

import (
	"time"

	obserrors "github.com/BemwaMalak/mini-full-stack/internal/observability/errors"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

// FlowMetric describes one finished session-affecting call (probe, login, logout, register).
type FlowMetric struct {
	Flow     string
	Result   string
	Code     string
	Duration time.Duration
	Err      error
}

// EmitFlow records a counter and, when known, the call duration.
func EmitFlow(sink statsd.Sink, in FlowMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"flow":   in.Flow,
		"result": in.Result,
	}
	if in.Code != "" {
		tags["code"] = in.Code
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("session.flow", 1, tags)
	if in.Duration > 0 {
		sink.Timing("session.flow.duration", in.Duration, CloneTags(tags))
	}
}

// EmitGuardDecision counts a route guard verdict.
func EmitGuardDecision(sink statsd.Sink, route, decision string) {
	if sink == nil {
		return
	}
	sink.Count("guard.decision", 1, map[string]string{
		"route":    route,
		"decision": decision,
	})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
