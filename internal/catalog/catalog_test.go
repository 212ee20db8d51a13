package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neerchitra/neerchitra-cli/internal/config"
	"github.com/neerchitra/neerchitra-cli/internal/model"
)

func TestStaticSourceTenLakes(t *testing.T) {
	src := NewStaticSource()
	lakes, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lakes, 10)

	names := make(map[string]bool, len(lakes))
	for _, l := range lakes {
		assert.False(t, names[l.Name], "duplicate name %s", l.Name)
		names[l.Name] = true

		assert.NotEmpty(t, l.District, "%s district", l.Name)
		assert.True(t, l.HasCoordinates(), "%s coordinates", l.Name)
		assert.Greater(t, l.AreaBaseline, 0.0, "%s baseline", l.Name)
		assert.GreaterOrEqual(t, l.DegradationPct, 0.0)
		assert.LessOrEqual(t, l.DegradationPct, 100.0)
		assert.GreaterOrEqual(t, l.FloodRisk, 0)
		assert.LessOrEqual(t, l.FloodRisk, 10)
		require.NotNil(t, l.PollutionIndex, "%s pollution", l.Name)
		require.NotNil(t, l.EncroachmentPct, "%s encroachment", l.Name)
	}

	// The five original survey lakes keep their recorded degradation.
	byName := make(map[string]model.LakeRecord)
	for _, l := range lakes {
		byName[l.Name] = l
	}
	assert.InDelta(t, 65, byName["Chembarambakkam"].DegradationPct, 0.0001)
	assert.InDelta(t, 45, byName["Puzhal"].DegradationPct, 0.0001)
	assert.InDelta(t, 72, byName["Velachery"].DegradationPct, 0.0001)
	assert.InDelta(t, 38, byName["Korattur"].DegradationPct, 0.0001)
	assert.InDelta(t, 55, byName["Ambattur"].DegradationPct, 0.0001)
}

func TestStaticSourceReturnsIsolatedCopies(t *testing.T) {
	src := NewStaticSource()
	ctx := context.Background()

	first, err := src.Load(ctx)
	require.NoError(t, err)
	first[0].DegradationPct = 99
	*first[0].PollutionIndex = 99

	second, err := src.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, 99.0, second[0].DegradationPct)
	assert.NotEqual(t, 99.0, *second[0].PollutionIndex)
}

func TestSyntheticSourceDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()

	a, err := NewSyntheticSource(42, 10).Load(ctx)
	require.NoError(t, err)
	b, err := NewSyntheticSource(42, 10).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSyntheticSource(7, 10).Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSyntheticSourceStaysInDomain(t *testing.T) {
	lakes, err := NewSyntheticSource(3, 100).Load(context.Background())
	require.NoError(t, err)

	for _, l := range lakes {
		assert.GreaterOrEqual(t, l.DegradationPct, 0.0, l.Name)
		assert.LessOrEqual(t, l.DegradationPct, 100.0, l.Name)
		if l.AreaBaseline > 0 {
			assert.LessOrEqual(t, l.AreaCurrent, l.AreaBaseline+0.01, l.Name)
		}
	}
}

const testCSV = `name,district,lat,lon,area_baseline,area_current,degradation_pct,population_impact,flood_risk,pollution_index,encroachment_pct
Velachery,Chennai,12.9791,80.2212,106,29.68,72,8500,9,41,38
Korattur,Chennai,13.1063,80.1824,940,582.8,38,2100,4,,
`

func TestFileSourceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lakes.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	src := NewFileSource(path)
	lakes, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lakes, 2)

	assert.Equal(t, "Velachery", lakes[0].Name)
	assert.InDelta(t, 72, lakes[0].DegradationPct, 0.0001)
	require.NotNil(t, lakes[0].PollutionIndex)
	assert.InDelta(t, 41, *lakes[0].PollutionIndex, 0.0001)

	assert.Equal(t, "Korattur", lakes[1].Name)
	assert.Nil(t, lakes[1].PollutionIndex)
	assert.Nil(t, lakes[1].EncroachmentPct)
}

func TestParseCSVDerivesDegradationFromAreas(t *testing.T) {
	csv := `name,area_baseline,area_current,population_impact,flood_risk
Sholavaram,1330,931,1400,3
`
	lakes, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lakes, 1)
	assert.InDelta(t, 30, lakes[0].DegradationPct, 0.0001)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			"missing name",
			"name,degradation_pct\n,50\n",
			"name is required",
		},
		{
			"no degradation and no areas",
			"name,population_impact\nFoo,100\n",
			"degradation_pct or both areas required",
		},
		{
			"bad number",
			"name,degradation_pct\nFoo,sixty\n",
			"degradation_pct",
		},
		{
			"header only",
			"name,degradation_pct\n",
			"no data rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

const testYAML = `lakes:
  - name: Chitlapakkam
    district: Chengalpattu
    area_baseline: 48
    area_current: 15.36
    degradation_pct: 68
    population_impact: 3100
    flood_risk: 8
    pollution_index: 38
  - name: Madhavaram
    degradation_pct: 58
    population_impact: 2600
    flood_risk: 6
`

func TestFileSourceYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lakes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))

	lakes, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lakes, 2)

	assert.Equal(t, "Chitlapakkam", lakes[0].Name)
	require.NotNil(t, lakes[0].PollutionIndex)
	assert.InDelta(t, 38, *lakes[0].PollutionIndex, 0.0001)
	assert.Nil(t, lakes[1].PollutionIndex)
}

func TestFileSourceJSON(t *testing.T) {
	doc := `[{"name":"Porur","degradation_pct":52,"population_impact":3900,"flood_risk":5}]`
	path := filepath.Join(t.TempDir(), "lakes.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	lakes, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, lakes, 1)
	assert.Equal(t, "Porur", lakes[0].Name)
}

func TestFileSourceUnsupportedExtension(t *testing.T) {
	_, err := NewFileSource("lakes.toml").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog file extension")
}

func TestSplitFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{"default port", "ftp://data.tn.gov.in/hydrology/lakes.csv", "data.tn.gov.in:21", "/hydrology/lakes.csv", false},
		{"explicit port", "ftp://mirror:2121/lakes.csv", "mirror:2121", "/lakes.csv", false},
		{"wrong scheme", "https://example.com/lakes.csv", "", "", true},
		{"no path", "ftp://example.com", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := splitFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestForConfig(t *testing.T) {
	src, err := ForConfig(config.CatalogConfig{Source: "static"}, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceStatic, src.Name())

	src, err = ForConfig(config.CatalogConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceStatic, src.Name())

	src, err = ForConfig(config.CatalogConfig{Source: "synthetic", Seed: 9}, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, src.Name())

	_, err = ForConfig(config.CatalogConfig{Source: "file"}, nil)
	require.Error(t, err)

	_, err = ForConfig(config.CatalogConfig{Source: "ftp"}, nil)
	require.Error(t, err)

	_, err = ForConfig(config.CatalogConfig{Source: "store"}, nil)
	require.Error(t, err)

	_, err = ForConfig(config.CatalogConfig{Source: "satellite"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}
