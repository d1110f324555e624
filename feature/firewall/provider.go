package firewall

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidPortRange is returned for an empty or inverted port interval.
var ErrInvalidPortRange = errors.New("invalid port range")

// PortRange is the inclusive port interval a set of ranges is scoped to.
type PortRange struct {
	From int `json:"from_port"`
	To   int `json:"to_port"`
}

// Validate checks that the interval is well formed.
func (p PortRange) Validate() error {
	if p.From <= 0 || p.To <= 0 || p.From > 65535 || p.To > 65535 || p.From > p.To {
		return fmt.Errorf("%w: %d-%d", ErrInvalidPortRange, p.From, p.To)
	}
	return nil
}

func (p PortRange) String() string {
	return fmt.Sprintf("%d-%d", p.From, p.To)
}

// HostRange turns a single address into a one-host CIDR range.
// An empty address yields "/32"; callers decide whether that is acceptable.
func HostRange(address string) string {
	return address + "/32"
}

// Provider lists and mutates the ranges permitted on a port interval.
// Add and Remove may partially succeed on error; callers must treat a
// failure as unknown state and re-read on the next pass.
type Provider interface {
	List(ctx context.Context, ports PortRange) ([]string, error)
	Add(ctx context.Context, ranges []string, ports PortRange) error
	Remove(ctx context.Context, ranges []string, ports PortRange) error
}
