package repository

import (
	"bytes"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestMigrateSchema_ReportsVersionOnEveryRun(t *testing.T) {
	// Arrange
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tasks.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	logs := captureLog(t)

	// Act
	require.NoError(t, migrateSchema(sqlDB, DriverSQLite))
	require.NoError(t, migrateSchema(sqlDB, DriverSQLite))

	// Assert
	assert.Equal(t, 2, strings.Count(logs.String(), "Schema at version 1"))
	assert.NotContains(t, logs.String(), "Could not read schema version")
}

func TestMigrateSchema_UnknownDriver(t *testing.T) {
	err := migrateSchema(nil, "etcd")

	assert.ErrorIs(t, err, ErrUnknownDriver)
}
