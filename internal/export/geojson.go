package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// WriteGeoJSON writes the ranked queue as a FeatureCollection of Point
// features. Records without coordinates cannot be placed and are skipped;
// the skip count is logged and returned so callers can surface it.
func WriteGeoJSON(w io.Writer, ranked []model.ScoredLake) (skipped int, err error) {
	fc := geojson.FeatureCollection{}

	for i, l := range ranked {
		if !l.HasCoordinates() {
			skipped++
			continue
		}

		props := map[string]interface{}{
			"rank":              i + 1,
			"name":              l.Name,
			"district":          l.District,
			"area_baseline_ha":  l.AreaBaseline,
			"area_current_ha":   l.AreaCurrent,
			"degradation_pct":   l.DegradationPct,
			"population_impact": l.PopulationImpact,
			"flood_risk":        l.FloodRisk,
			"priority_score":    l.PriorityScore,
			"status":            string(l.Status),
		}
		if l.PollutionIndex != nil {
			props["pollution_index"] = *l.PollutionIndex
		}
		if l.EncroachmentPct != nil {
			props["encroachment_pct"] = *l.EncroachmentPct
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         l.Name,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{l.Lon, l.Lat}).SetSRID(4326),
			Properties: props,
		})
	}

	if skipped > 0 {
		zap.L().Warn("geojson export: records without coordinates skipped",
			zap.Int("skipped", skipped))
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return skipped, eris.Wrap(err, "export: encode geojson")
	}
	return skipped, nil
}
