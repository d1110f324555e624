package firewall

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rule is one permitted range on a port interval.
type Rule struct {
	ID        uint      `gorm:"primaryKey"`
	CIDR      string    `gorm:"column:cidr;size:64;not null;uniqueIndex:idx_acl_rule"`
	FromPort  int       `gorm:"column:from_port;not null;uniqueIndex:idx_acl_rule"`
	ToPort    int       `gorm:"column:to_port;not null;uniqueIndex:idx_acl_rule"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName pins the table name regardless of naming strategy.
func (Rule) TableName() string {
	return "acl_rules"
}

// DatabaseProvider stores ranges in the acl_rules table.
type DatabaseProvider struct {
	db *gorm.DB
}

// NewDatabaseProvider returns a provider over db. Call Migrate once before use.
func NewDatabaseProvider(db *gorm.DB) *DatabaseProvider {
	return &DatabaseProvider{db: db}
}

// Migrate creates or updates the acl_rules table.
func (p *DatabaseProvider) Migrate(ctx context.Context) error {
	if err := p.db.WithContext(ctx).AutoMigrate(&Rule{}); err != nil {
		return fmt.Errorf("failed to migrate acl_rules: %w", err)
	}
	return nil
}

// List implements Provider.
func (p *DatabaseProvider) List(ctx context.Context, ports PortRange) ([]string, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	var ranges []string
	err := p.db.WithContext(ctx).
		Model(&Rule{}).
		Where("from_port = ? AND to_port = ?", ports.From, ports.To).
		Order("cidr").
		Pluck("cidr", &ranges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list acl rules for %s: %w", ports, err)
	}
	return ranges, nil
}

// Add implements Provider. All ranges are inserted in one transaction;
// ranges that already exist are skipped.
func (p *DatabaseProvider) Add(ctx context.Context, ranges []string, ports PortRange) error {
	if err := ports.Validate(); err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}

	rows := make([]Rule, 0, len(ranges))
	for _, cidr := range ranges {
		rows = append(rows, Rule{CIDR: cidr, FromPort: ports.From, ToPort: ports.To})
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add %d acl rules for %s: %w", len(ranges), ports, err)
	}
	return nil
}

// Remove implements Provider.
func (p *DatabaseProvider) Remove(ctx context.Context, ranges []string, ports PortRange) error {
	if err := ports.Validate(); err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}

	err := p.db.WithContext(ctx).
		Where("from_port = ? AND to_port = ? AND cidr IN ?", ports.From, ports.To, ranges).
		Delete(&Rule{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove %d acl rules for %s: %w", len(ranges), ports, err)
	}
	return nil
}
