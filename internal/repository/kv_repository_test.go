package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskcrafter/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestKVRepository_Set(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewKVRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT \("key"\) DO UPDATE`).
		WithArgs("tasks", "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.Set(context.Background(), "tasks", "[]")

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Set_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewKVRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "kv_entries"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Set(context.Background(), "tasks", "[]")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Get_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewKVRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("tasks", `[{"id":"a"}]`, time.Now()))

	// Act
	value, ok, err := repo.Get(context.Background(), "tasks")

	// Assert
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Get_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewKVRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	value, ok, err := repo.Get(context.Background(), "tasks_backup")

	assert.NoError(t, err) // a missing key is not an error
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_Get_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewKVRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "kv_entries"`).WillReturnError(assert.AnError)

	_, ok, err := repo.Get(context.Background(), "tasks")

	assert.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryKVStore(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "tasks")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, kv.Set(ctx, "tasks", "[]"))
	v, ok, err := kv.Get(ctx, "tasks")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}
