package membership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidMember is returned when a member record lacks required fields.
var ErrInvalidMember = errors.New("invalid member")

// Member is one live cluster process as published in the registry.
type Member struct {
	InstanceID string    `json:"instance_id" gorm:"column:instance_id;primaryKey;size:64"`
	AppID      string    `json:"app_id" gorm:"column:app_id;size:128;not null;index"`
	Region     string    `json:"region" gorm:"column:region;size:64"`
	HostName   string    `json:"host_name" gorm:"column:host_name;size:255"`
	HostIP     string    `json:"host_ip" gorm:"column:host_ip;size:64"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName pins the table name regardless of naming strategy.
func (Member) TableName() string {
	return "cluster_members"
}

// Validate checks the fields a peer needs to reach this member.
func (m Member) Validate() error {
	switch {
	case m.InstanceID == "":
		return fmt.Errorf("%w: instance id is required", ErrInvalidMember)
	case m.AppID == "":
		return fmt.Errorf("%w: app id is required", ErrInvalidMember)
	case m.Region == "":
		return fmt.Errorf("%w: region is required", ErrInvalidMember)
	case m.HostName == "":
		return fmt.Errorf("%w: host name is required", ErrInvalidMember)
	case m.HostIP == "":
		return fmt.Errorf("%w: host ip is required", ErrInvalidMember)
	}
	return nil
}

// NewInstanceID returns a random instance identifier.
func NewInstanceID() string {
	return uuid.NewString()
}

// Registry enumerates the members of an application.
type Registry interface {
	ListMembers(ctx context.Context, appID string) ([]Member, error)
}

// Registrar publishes and withdraws the local member.
type Registrar interface {
	Register(ctx context.Context, m Member) error
	Deregister(ctx context.Context, m Member) error
}

// Store is a registry backend that supports both reading and publishing.
type Store interface {
	Registry
	Registrar
}

// sortMembers orders members by region, then host name, then instance id.
func sortMembers(members []Member) {
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.HostName != b.HostName {
			return a.HostName < b.HostName
		}
		return a.InstanceID < b.InstanceID
	})
}
