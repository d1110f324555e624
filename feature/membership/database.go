package membership

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseRegistry stores members in the cluster_members table.
type DatabaseRegistry struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabaseRegistry returns a registry over db. Call Migrate once before use.
func NewDatabaseRegistry(db *gorm.DB) *DatabaseRegistry {
	return &DatabaseRegistry{db: db, now: time.Now}
}

// Migrate creates or updates the cluster_members table.
func (r *DatabaseRegistry) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Member{}); err != nil {
		return fmt.Errorf("failed to migrate cluster_members: %w", err)
	}
	return nil
}

// Register upserts the member keyed by instance id.
func (r *DatabaseRegistry) Register(ctx context.Context, m Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.UpdatedAt = r.now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instance_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"app_id", "region", "host_name", "host_ip", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to register member %s: %w", m.InstanceID, err)
	}
	return nil
}

// Deregister deletes the member row.
func (r *DatabaseRegistry) Deregister(ctx context.Context, m Member) error {
	err := r.db.WithContext(ctx).Where("instance_id = ?", m.InstanceID).Delete(&Member{}).Error
	if err != nil {
		return fmt.Errorf("failed to deregister member %s: %w", m.InstanceID, err)
	}
	return nil
}

// ListMembers implements Registry.
func (r *DatabaseRegistry) ListMembers(ctx context.Context, appID string) ([]Member, error) {
	members := []Member{}
	err := r.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("region, host_name, instance_id").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members of %s: %w", appID, err)
	}
	return members, nil
}
