package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

func sampleRanked() []model.ScoredLake {
	return []model.ScoredLake{
		{
			LakeRecord: model.LakeRecord{
				Name:             "Velachery Lake",
				District:         "Chennai",
				Lat:              12.9815,
				Lon:              80.2180,
				AreaBaseline:     265,
				AreaCurrent:      80,
				DegradationPct:   72,
				PopulationImpact: 5200,
				FloodRisk:        9,
				PollutionIndex:   model.Float64Ptr(8.2),
			},
			PriorityScore: 81.15,
			Status:        model.StatusCritical,
		},
		{
			LakeRecord: model.LakeRecord{
				Name:             "Korattur Lake",
				District:         "Chennai",
				AreaBaseline:     490,
				AreaCurrent:      304,
				DegradationPct:   38,
				PopulationImpact: 3100,
				FloodRisk:        6,
			},
			PriorityScore: 29.0,
			Status:        model.StatusModerate,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRanked()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Velachery Lake", rows[1][1])
	assert.Equal(t, "81.15", rows[1][10])
	assert.Equal(t, "Critical", rows[1][11])
	// Optional attributes render as empty cells when absent.
	assert.Equal(t, "8.2", rows[1][8])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "", rows[2][9])
}

func TestWriteCSVEmptyQueueStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankings.xlsx")
	require.NoError(t, WriteXLSX(path, sampleRanked()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Rankings", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "rank", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Velachery Lake", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "Moderate", sheet.Rows[2].Cells[11].Value)
}

func TestWriteGeoJSONSkipsRecordsWithoutCoordinates(t *testing.T) {
	var buf bytes.Buffer
	skipped, err := WriteGeoJSON(&buf, sampleRanked())
	require.NoError(t, err)
	assert.Equal(t, 1, skipped) // Korattur has no coordinates

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.InDelta(t, 80.2180, fc.Features[0].Geometry.Coordinates[0], 0.0001)
	assert.InDelta(t, 12.9815, fc.Features[0].Geometry.Coordinates[1], 0.0001)
	assert.Equal(t, "Velachery Lake", fc.Features[0].Properties["name"])
	assert.Equal(t, "Critical", fc.Features[0].Properties["status"])
}

func TestWriteShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankings.shp")
	skipped, err := WriteShapefile(path, sampleRanked())
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer reader.Close()

	var names []string
	for reader.Next() {
		names = append(names, strings.TrimRight(reader.Attribute(1), "\x00"))
	}
	assert.Equal(t, []string{"Velachery Lake"}, names)
}

func TestWriteDispatch(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	paths, err := Write(context.Background(), FormatCSV, base, sampleRanked())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.FileExists(t, paths[0])

	_, err = Write(context.Background(), "parquet", base, sampleRanked())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestWriteAll(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	paths, err := WriteAll(context.Background(), base, sampleRanked())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}
