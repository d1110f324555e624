package mocks

import (
	"context"

	"sgsync/feature/membership"

	"github.com/stretchr/testify/mock"
)

var _ membership.Store = (*Store)(nil)

// Store is a mock implementation of membership.Store
type Store struct {
	mock.Mock
}

func (m *Store) ListMembers(ctx context.Context, appID string) ([]membership.Member, error) {
	args := m.Called(ctx, appID)
	if members, ok := args.Get(0).([]membership.Member); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Register(ctx context.Context, member membership.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *Store) Deregister(ctx context.Context, member membership.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
