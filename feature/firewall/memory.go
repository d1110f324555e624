package firewall

import (
	"context"
	"sort"
	"sync"
)

// MemoryProvider keeps ranges in process memory.
type MemoryProvider struct {
	mu    sync.RWMutex
	rules map[PortRange]map[string]struct{}
}

// NewMemoryProvider returns a provider seeded with the given ranges on ports.
func NewMemoryProvider(ports PortRange, ranges ...string) *MemoryProvider {
	m := &MemoryProvider{rules: make(map[PortRange]map[string]struct{})}
	if len(ranges) > 0 {
		_ = m.Add(context.Background(), ranges, ports)
	}
	return m
}

// List implements Provider. The result is sorted.
func (m *MemoryProvider) List(ctx context.Context, ports PortRange) ([]string, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.rules[ports]))
	for cidr := range m.rules[ports] {
		out = append(out, cidr)
	}
	sort.Strings(out)
	return out, nil
}

// Add implements Provider. Existing ranges are left untouched.
func (m *MemoryProvider) Add(ctx context.Context, ranges []string, ports PortRange) error {
	if err := ports.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.rules[ports]
	if !ok {
		set = make(map[string]struct{})
		m.rules[ports] = set
	}
	for _, cidr := range ranges {
		set[cidr] = struct{}{}
	}
	return nil
}

// Remove implements Provider. Missing ranges are ignored.
func (m *MemoryProvider) Remove(ctx context.Context, ranges []string, ports PortRange) error {
	if err := ports.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cidr := range ranges {
		delete(m.rules[ports], cidr)
	}
	return nil
}
