package ports_test

import (
	"testing"

	"github.com/BemwaMalak/mini-full-stack/internal/mocks"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityAPI = (*mocks.MockIdentityAPI)(nil)
	var _ ports.AccountAPI = (*mocks.MockAccountAPI)(nil)
	var _ ports.OnceLedger = (*mocks.MockOnceLedger)(nil)
	var _ ports.Presenter = (*mocks.MockPresenter)(nil)
}
