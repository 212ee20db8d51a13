// Package export serializes a single run's ranked restoration queue. The
// field set and order of the tabular formats is fixed here once; every
// writer derives its columns from the same row builder.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// Header is the canonical column order for tabular exports.
var Header = []string{
	"rank",
	"name",
	"district",
	"area_baseline_ha",
	"area_current_ha",
	"degradation_pct",
	"population_impact",
	"flood_risk",
	"pollution_index",
	"encroachment_pct",
	"priority_score",
	"status",
}

// Row renders one ranked lake as strings in Header order. Rank positions
// are 1-based; absent optional attributes render as empty cells.
func Row(position int, l model.ScoredLake) []string {
	return []string{
		strconv.Itoa(position),
		l.Name,
		l.District,
		formatFloat(l.AreaBaseline),
		formatFloat(l.AreaCurrent),
		formatFloat(l.DegradationPct),
		formatFloat(l.PopulationImpact),
		strconv.Itoa(l.FloodRisk),
		formatOptFloat(l.PollutionIndex),
		formatOptFloat(l.EncroachmentPct),
		fmt.Sprintf("%.2f", l.PriorityScore),
		string(l.Status),
	}
}

// WriteCSV writes the ranked queue as comma-separated rows, header first.
func WriteCSV(w io.Writer, ranked []model.ScoredLake) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for i, l := range ranked {
		if err := cw.Write(Row(i+1, l)); err != nil {
			return eris.Wrapf(err, "export: write CSV row %d", i+1)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
