package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"drivesafe-service/internal/domain"
	"drivesafe-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
	return conn
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "centers.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openSQLite(t)
	require.NoError(t, InitSchema(context.Background(), conn, db.SQLite))
}

func TestSeedAndListCenters(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	path := writeSeed(t, `[
		{"id": 2, "name": "Bo", "latitude": 7.9647, "longitude": -11.7383},
		{"id": 1, "name": " Connaught ", "latitude": 8.487, "longitude": -13.2356}
	]`)

	n, err := SeedFromJSON(ctx, conn, db.SQLite, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Reseeding replaces rows instead of failing on the primary key.
	path = writeSeed(t, `[{"id": 2, "name": "Bo Government Hospital", "latitude": 7.9647, "longitude": -11.7383}]`)
	_, err = SeedFromJSON(ctx, conn, db.SQLite, path)
	require.NoError(t, err)

	centers, err := NewSQLCenterRepository(conn).ListCenters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.EmergencyCenter{
		{ID: 1, Name: "Connaught", Location: domain.Coordinates{Lat: 8.487, Lng: -13.2356}},
		{ID: 2, Name: "Bo Government Hospital", Location: domain.Coordinates{Lat: 7.9647, Lng: -11.7383}},
	}, centers)
}

func TestListCentersEmptyTable(t *testing.T) {
	centers, err := NewSQLCenterRepository(openSQLite(t)).ListCenters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, centers)
}

func TestReadCenterSeedsValidation(t *testing.T) {
	cases := map[string]string{
		"bad id":       `[{"id": 0, "name": "x", "latitude": 1, "longitude": 1}]`,
		"duplicate id": `[{"id": 1, "name": "a", "latitude": 1, "longitude": 1},{"id": 1, "name": "b", "latitude": 1, "longitude": 1}]`,
		"empty name":   `[{"id": 1, "name": "  ", "latitude": 1, "longitude": 1}]`,
		"bad latitude": `[{"id": 1, "name": "x", "latitude": 91, "longitude": 1}]`,
		"not json":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCenterSeeds(writeSeed(t, body))
			assert.Error(t, err)
		})
	}

	_, err := ReadCenterSeeds(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadCenterSeedsInvalidCoordinateIsTyped(t *testing.T) {
	_, err := ReadCenterSeeds(writeSeed(t, `[{"id": 1, "name": "x", "latitude": 1, "longitude": 200}]`))
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}

func TestJSONCenterRepositoryKeepsFileOrder(t *testing.T) {
	path := writeSeed(t, `[
		{"id": 9, "name": "Last id first", "latitude": 1, "longitude": 1},
		{"id": 3, "name": "Second", "latitude": 2, "longitude": 2}
	]`)

	centers, err := NewJSONCenterRepository(path).ListCenters(context.Background())
	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.Equal(t, 9, centers[0].ID)
	assert.Equal(t, 3, centers[1].ID)
}

func TestBundledSeedFileIsValid(t *testing.T) {
	centers, err := ReadCenterSeeds(filepath.Join("..", "..", "..", "data", "seeds", "centers.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, centers)
}
