package mocks

import (
	"context"

	"sgsync/feature/firewall"

	"github.com/stretchr/testify/mock"
)

var _ firewall.Provider = (*Provider)(nil)

// Provider is a mock implementation of firewall.Provider
type Provider struct {
	mock.Mock
}

func (m *Provider) List(ctx context.Context, ports firewall.PortRange) ([]string, error) {
	args := m.Called(ctx, ports)
	if ranges, ok := args.Get(0).([]string); ok {
		return ranges, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Provider) Add(ctx context.Context, ranges []string, ports firewall.PortRange) error {
	args := m.Called(ctx, ranges, ports)
	return args.Error(0)
}

func (m *Provider) Remove(ctx context.Context, ranges []string, ports firewall.PortRange) error {
	args := m.Called(ctx, ranges, ports)
	return args.Error(0)
}
