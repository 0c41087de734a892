package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"badgr/internal/logger"
	"badgr/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestNewSQLite(t *testing.T) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := New("sqlite://file:"+name+"?mode=memory&cache=shared", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Equal(t, DialectSQLite, db.Dialect)
	assert.True(t, db.DB.Migrator().HasTable(&models.WidgetConfiguration{}))
	assert.True(t, db.DB.Migrator().HasTable(models.TableWidgetConfigurations))
	assert.NoError(t, db.Ping(context.Background()))
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	db := FromGorm(gdb, DialectPostgres)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.EqualError(t, db.Ping(context.Background()), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
}
