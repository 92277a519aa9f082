package services

import (
	"context"
	"drivesafe-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

type stubLocator struct {
	coords domain.Coordinates
	err    error
	block  bool
	calls  int
}

func (s *stubLocator) Locate(ctx context.Context, query string) (domain.Coordinates, error) {
	s.calls++
	if s.block {
		// Ignores ctx on purpose: AcquireLocation must not depend on it.
		select {}
	}
	return s.coords, s.err
}

type stubRepo struct {
	centers []domain.EmergencyCenter
	err     error
}

func (s *stubRepo) ListCenters(ctx context.Context) ([]domain.EmergencyCenter, error) {
	return s.centers, s.err
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, req domain.HelpRequest) (domain.Receipt, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Receipt), args.Error(1)
}
