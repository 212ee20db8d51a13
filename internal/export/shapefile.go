package export

import (
	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// DBF limits attribute names to 10 characters, so the shapefile carries
// truncated versions of the canonical Header names.
var shpFields = []shp.Field{
	shp.NumberField("RANK", 10),
	shp.StringField("NAME", 60),
	shp.StringField("DISTRICT", 40),
	shp.FloatField("AREA_BASE", 12, 2),
	shp.FloatField("AREA_CURR", 12, 2),
	shp.FloatField("DEGRAD_PCT", 8, 2),
	shp.FloatField("POP_IMPACT", 12, 0),
	shp.NumberField("FLOOD_RISK", 4),
	shp.FloatField("POLLUTION", 8, 2),
	shp.FloatField("ENCROACH", 8, 2),
	shp.FloatField("SCORE", 8, 2),
	shp.StringField("STATUS", 10),
}

// WriteShapefile writes the ranked queue as a point shapefile with DBF
// attributes. Records without coordinates are skipped like the GeoJSON
// writer; the skip count is returned.
func WriteShapefile(path string, ranked []model.ScoredLake) (skipped int, err error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close()

	if err := w.SetFields(shpFields); err != nil {
		return 0, eris.Wrap(err, "export: set shapefile fields")
	}

	for i, l := range ranked {
		if !l.HasCoordinates() {
			skipped++
			continue
		}

		row := int(w.Write(&shp.Point{X: l.Lon, Y: l.Lat}))

		attrs := []interface{}{
			i + 1,
			l.Name,
			l.District,
			l.AreaBaseline,
			l.AreaCurrent,
			l.DegradationPct,
			l.PopulationImpact,
			l.FloodRisk,
			optOrZero(l.PollutionIndex),
			optOrZero(l.EncroachmentPct),
			l.PriorityScore,
			string(l.Status),
		}
		for f, v := range attrs {
			if err := w.WriteAttribute(row, f, v); err != nil {
				return skipped, eris.Wrapf(err, "export: shapefile attribute %s for %q", shpFields[f].String(), l.Name)
			}
		}
	}

	if skipped > 0 {
		zap.L().Warn("shapefile export: records without coordinates skipped",
			zap.Int("skipped", skipped))
	}
	return skipped, nil
}

// optOrZero flattens an optional attribute for the DBF table, which has no
// notion of null numeric cells.
func optOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
