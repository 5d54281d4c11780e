// Package mocks provides gomock implementations of the gate's ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockIdentityAPI(ctrl)
//	api.EXPECT().FetchIdentity(gomock.Any()).Return(identity, nil)
package mocks

// Generate mocks for IdentityAPI, AccountAPI, OnceLedger, and Presenter from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/BemwaMalak/mini-full-stack/internal/ports IdentityAPI,AccountAPI,OnceLedger,Presenter
