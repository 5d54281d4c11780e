package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server error", fmt.Errorf("fetch identity: %w", &outcome.ServerError{Status: 401, Code: "E005"}), "server_error"},
		{"malformed identity", fmt.Errorf("decode: %w", ports.ErrMalformedIdentity), "malformed_identity"},
		{"canceled", fmt.Errorf("do: %w", context.Canceled), "canceled"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"custom pointer type", fmt.Errorf("wrap: %w", &customErr{}), "errors_customerr"},
		{"plain errors.New", goerrors.New("x"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
