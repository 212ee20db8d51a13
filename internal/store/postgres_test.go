package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresUpsertLake(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO lakes`).
		WithArgs(
			pgxmock.AnyArg(), "Puzhal", "Tiruvallur", 13.1645, 80.1722,
			1900.0, 1045.0, 45.0, 7200.0, 6,
			28.0, 12.0, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lake := model.LakeRecord{
		Name: "Puzhal", District: "Tiruvallur",
		Lat: 13.1645, Lon: 80.1722,
		AreaBaseline: 1900, AreaCurrent: 1045, DegradationPct: 45,
		PopulationImpact: 7200, FloodRisk: 6,
		PollutionIndex:  model.Float64Ptr(28),
		EncroachmentPct: model.Float64Ptr(12),
	}
	require.NoError(t, s.UpsertLake(context.Background(), lake))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetLakeNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM lakes WHERE name = \$1`).
		WithArgs("Atlantis").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLake(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLakeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListLakes(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	cols := []string{
		"name", "district", "lat", "lon", "area_baseline", "area_current",
		"degradation_pct", "population_impact", "flood_risk",
		"pollution_index", "encroachment_pct",
	}
	mock.ExpectQuery(`SELECT .* FROM lakes ORDER BY name`).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("Ambattur", "Chennai", 13.1143, 80.1548, 380.0, 171.0, 55.0, 5600.0, 7, model.Float64Ptr(30), model.Float64Ptr(21)).
			AddRow("Korattur", "Chennai", 13.1063, 80.1824, 940.0, 582.8, 38.0, 2100.0, 4, (*float64)(nil), (*float64)(nil)))

	lakes, err := s.ListLakes(context.Background())
	require.NoError(t, err)
	require.Len(t, lakes, 2)

	assert.Equal(t, "Ambattur", lakes[0].Name)
	require.NotNil(t, lakes[0].PollutionIndex)
	assert.InDelta(t, 30, *lakes[0].PollutionIndex, 0.0001)

	assert.Equal(t, "Korattur", lakes[1].Name)
	assert.Nil(t, lakes[1].PollutionIndex)
	assert.Nil(t, lakes[1].EncroachmentPct)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteLakeNotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM lakes`).
		WithArgs("Atlantis").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteLake(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLakeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountLakes(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM lakes`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(10))

	n, err := s.CountLakes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS lakes`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
