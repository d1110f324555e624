package membership

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLite creates an in-memory SQLite DB with the cluster_members table.
func setupSQLite(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := NewDatabaseRegistry(db).Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestDatabaseRegistry_RegisterListDeregister(t *testing.T) {
	ctx := context.Background()
	r := NewDatabaseRegistry(setupSQLite(t, "members_crud"))
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	east := testMember("i-east", "us-east-1", "10.0.0.1", "1.2.3.4")
	west := testMember("i-west", "us-west-2", "10.1.0.1", "5.6.7.8")
	other := Member{InstanceID: "i-other", AppID: "other_app", Region: "us-east-1", HostName: "10.9.9.9", HostIP: "9.9.9.9"}

	require.NoError(t, r.Register(ctx, west))
	require.NoError(t, r.Register(ctx, east))
	require.NoError(t, r.Register(ctx, other))

	members, err := r.ListMembers(ctx, "cass_test")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "i-east", members[0].InstanceID)
	assert.Equal(t, "i-west", members[1].InstanceID)
	assert.Equal(t, 2024, members[0].UpdatedAt.Year())

	// Re-registering updates in place.
	east.HostIP = "1.2.3.5"
	require.NoError(t, r.Register(ctx, east))
	members, err = r.ListMembers(ctx, "cass_test")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "1.2.3.5", members[0].HostIP)

	require.NoError(t, r.Deregister(ctx, west))
	members, err = r.ListMembers(ctx, "cass_test")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "i-east", members[0].InstanceID)
}

func TestDatabaseRegistry_RegisterRejectsInvalid(t *testing.T) {
	r := NewDatabaseRegistry(setupSQLite(t, "members_invalid"))
	err := r.Register(context.Background(), Member{InstanceID: "i-1", AppID: "cass_test"})
	assert.ErrorIs(t, err, ErrInvalidMember)
}

func TestDatabaseRegistry_MySQLListError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `cluster_members`")).WillReturnError(errors.New("too many connections"))

	members, err := NewDatabaseRegistry(db).ListMembers(context.Background(), "cass_test")
	assert.Nil(t, members)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list members of cass_test")
	assert.NoError(t, mock.ExpectationsWereMet())
}
