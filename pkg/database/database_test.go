package database

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaguard/pkg/logging"
	"aquaguard/pkg/metrics"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(&Config{Driver: DriverSQLite, Path: MemoryPath},
		logging.NewNopLogger(), metrics.NewCollector("test", prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{
			name: "postgres",
			cfg:  Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Database: "aquaguard", SSLMode: "disable"},
			want: "host=db port=5432 user=u password=p dbname=aquaguard sslmode=disable",
		},
		{name: "sqlite file", cfg: Config{Driver: DriverSQLite, Path: "data/aquaguard.db"}, want: "data/aquaguard.db"},
		{name: "sqlite without path", cfg: Config{Driver: DriverSQLite}, wantErr: true},
		{name: "unknown driver", cfg: Config{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.DSN()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate_UpWithSeed(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, "up", true))

	counts := map[string]int{
		"ocean_data":        6,
		"ocean_data_points": 18,
		"districts":         3,
		"regions":           4,
		"sightings":         2,
		"groundwater":       4,
	}
	for table, want := range counts {
		var got int
		require.NoError(t, db.GetContext(ctx, "count", &got, "SELECT COUNT(*) FROM "+table))
		assert.Equal(t, want, got, table)
	}

	// A second run must not duplicate sample data.
	require.NoError(t, db.Migrate(ctx, "up", true))
	var got int
	require.NoError(t, db.GetContext(ctx, "count", &got, "SELECT COUNT(*) FROM groundwater"))
	assert.Equal(t, 4, got)
}

func TestMigrate_Down(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, "up", false))
	require.NoError(t, db.Migrate(ctx, "down", false))

	var n int
	err := db.GetContext(ctx, "count", &n, "SELECT COUNT(*) FROM groundwater")
	assert.Error(t, err)
}

func TestMigrate_InvalidDirection(t *testing.T) {
	db := openMemory(t)
	assert.Error(t, db.Migrate(context.Background(), "sideways", false))
}

func TestSplitStatements(t *testing.T) {
	script := "CREATE TABLE a (x INT);\n\nINSERT INTO a VALUES\n  (1),\n  (2);\n"
	stmts := splitStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x INT);", stmts[0])
	assert.Contains(t, stmts[1], "(2);")
}

func TestHealthCheck(t *testing.T) {
	db := openMemory(t)
	assert.NoError(t, db.HealthCheck(context.Background()))
}
