package service

import (
	"testing"

	"github.com/campusgrid/studentportal/internal/bootstrap"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))

	return db
}

func strPtr(s string) *string {
	return &s
}
