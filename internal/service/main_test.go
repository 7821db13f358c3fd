package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/armandusbasson/KSA-PSMS/internal/db"
	"github.com/armandusbasson/KSA-PSMS/internal/filestore"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

type testDeps struct {
	db *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	return database
}

func newTestStore(t *testing.T) *filestore.Store {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func createTestSite(t *testing.T, database *gorm.DB, name string) *model.Site {
	t.Helper()
	svc := NewSiteService(repository.NewSiteRepository(database), repository.NewStaffRepository(database))
	site, err := svc.Create(context.Background(), SiteCreateInput{Name: name})
	require.NoError(t, err)
	return site
}

func createTestStaff(t *testing.T, database *gorm.DB, name string) *model.Staff {
	t.Helper()
	svc := NewStaffService(repository.NewStaffRepository(database))
	member, err := svc.Create(context.Background(), StaffCreateInput{Name: name, Surname: "Tester"})
	require.NoError(t, err)
	return member
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
