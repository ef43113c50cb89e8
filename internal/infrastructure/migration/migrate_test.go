package migration

import (
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestVersion_EmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	latest, err := latestVersion(src)

	require.NoError(t, err)
	assert.Equal(t, uint(5), latest)
}

func TestLatestVersion_Gaps(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_a.up.sql":   {Data: []byte("SELECT 1;")},
		"000001_a.down.sql": {Data: []byte("SELECT 1;")},
		"000007_b.up.sql":   {Data: []byte("SELECT 1;")},
		"000007_b.down.sql": {Data: []byte("SELECT 1;")},
	}
	src, err := iofs.New(fsys, ".")
	require.NoError(t, err)

	latest, err := latestVersion(src)

	require.NoError(t, err)
	assert.Equal(t, uint(7), latest)
}

func TestSchemaStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   SchemaStatus
		upToDate bool
	}{
		{"current", SchemaStatus{Current: 4, Latest: 4}, true},
		{"ahead of this build", SchemaStatus{Current: 5, Latest: 4}, true},
		{"behind", SchemaStatus{Current: 2, Latest: 4}, false},
		{"empty database", SchemaStatus{Current: 0, Latest: 4}, false},
		{"dirty", SchemaStatus{Current: 4, Latest: 4, Dirty: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.upToDate, tt.status.UpToDate())
			err := tt.status.Err()
			if tt.upToDate {
				assert.NoError(t, err)
				return
			}
			assert.True(t, shared.IsSchemaOutOfDate(err))
		})
	}
}
