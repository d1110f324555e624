package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "sgsync",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Equal(t, "unsupported database driver: oracle", err.Error())
	})

	t.Run("SQLite in memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		require.NotNil(t, db)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})
}
