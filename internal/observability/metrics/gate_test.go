package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetric struct {
	kind  string
	name  string
	tags  map[string]string
	value any
}

type recordingSink struct {
	metrics []recordedMetric
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{kind: "count", name: name, tags: tags, value: value})
}

func (r *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{kind: "timing", name: name, tags: tags, value: value})
}

type probeFailure struct{}

func (probeFailure) Error() string { return "boom" }

func TestEmitFlow(t *testing.T) {
	sink := &recordingSink{}
	EmitFlow(sink, FlowMetric{
		Flow:     "probe",
		Result:   ResultError,
		Code:     "E005",
		Duration: 20 * time.Millisecond,
		Err:      probeFailure{},
	})

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, "session.flow", sink.metrics[0].name)
	assert.Equal(t, map[string]string{
		"flow":        "probe",
		"result":      "error",
		"code":        "E005",
		"error_class": "metrics_probefailure",
	}, sink.metrics[0].tags)
	assert.Equal(t, "timing", sink.metrics[1].kind)
	assert.Equal(t, 20*time.Millisecond, sink.metrics[1].value)
}

func TestEmitFlow_NoDurationNoTiming(t *testing.T) {
	sink := &recordingSink{}
	EmitFlow(sink, FlowMetric{Flow: "logout", Result: ResultSuccess})
	require.Len(t, sink.metrics, 1)
	assert.NotContains(t, sink.metrics[0].tags, "code")
}

func TestEmitFlow_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitFlow(nil, FlowMetric{Flow: "probe", Err: errors.New("x")})
		EmitGuardDecision(nil, "/home", "show_view")
	})
}

func TestEmitGuardDecision(t *testing.T) {
	sink := &recordingSink{}
	EmitGuardDecision(sink, "/dashboard", "redirect")
	require.Len(t, sink.metrics, 1)
	assert.Equal(t, map[string]string{"route": "/dashboard", "decision": "redirect"}, sink.metrics[0].tags)
}
