package cluster

import (
	"errors"
	"fmt"
)

// Identity describes the local node as seen by its peers.
type Identity struct {
	AppName        string
	InstanceID     string
	Region         string
	HostName       string
	HostIP         string
	Seed           bool
	StoragePort    int
	SSLStoragePort int
}

// IdentitySource supplies the local identity. It is queried on every
// reconciliation tick and must not be cached by callers.
type IdentitySource interface {
	Identity() Identity
}

// StaticIdentity is an IdentitySource that always returns the same value.
type StaticIdentity Identity

// Identity implements IdentitySource.
func (s StaticIdentity) Identity() Identity {
	return Identity(s)
}

// Validate reports every missing or inconsistent field.
func (i Identity) Validate() error {
	var errs []error
	if i.AppName == "" {
		errs = append(errs, errors.New("app name is required"))
	}
	if i.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if i.HostName == "" {
		errs = append(errs, errors.New("host name is required"))
	}
	if i.HostIP == "" {
		errs = append(errs, errors.New("host ip is required"))
	}
	if i.StoragePort <= 0 || i.SSLStoragePort <= 0 {
		errs = append(errs, fmt.Errorf("storage ports must be positive (got %d, %d)", i.StoragePort, i.SSLStoragePort))
	}
	return errors.Join(errs...)
}
