package engine

import (
	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// AverageDegradation returns the arithmetic mean of degradation_pct across
// the set. An empty set returns ErrEmptyInput rather than zero; callers
// must handle "no data" explicitly.
func AverageDegradation(records []model.LakeRecord) (float64, error) {
	if len(records) == 0 {
		return 0, eris.Wrap(ErrEmptyInput, "average degradation")
	}
	var sum float64
	for _, r := range records {
		sum += r.DegradationPct
	}
	return sum / float64(len(records)), nil
}

// CountByStatus tallies ranked lakes per status. Every defined label is
// present in the result, zero-filled when absent; consumers render
// fixed-width tables and charts and must never see a missing key.
func CountByStatus(ranked []model.ScoredLake) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		counts[s] = 0
	}
	for _, l := range ranked {
		counts[l.Status]++
	}
	return counts
}

// TotalAreaLost sums baseline-minus-current area across records.
// Individual differences may be negative where the current observation
// exceeds the baseline; they are summed raw rather than clamped, so the
// total reflects net change across the catalog.
func TotalAreaLost(records []model.LakeRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.AreaLost()
	}
	return total
}

// Summary bundles the derived aggregates of one scoring pass for summary
// views and serialized responses.
type Summary struct {
	LakeCount          int                  `json:"lake_count"`
	Preset             string               `json:"preset"`
	AverageDegradation float64              `json:"average_degradation"`
	TotalAreaLost      float64              `json:"total_area_lost"`
	StatusCounts       map[model.Status]int `json:"status_counts"`
	TopLake            string               `json:"top_lake,omitempty"`
	TopScore           float64              `json:"top_score,omitempty"`
}

// Summarize computes the aggregate block for a ranked queue. The records
// slice must be the same set the queue was ranked from. Empty input
// surfaces ErrEmptyInput from the average.
func Summarize(records []model.LakeRecord, ranked []model.ScoredLake, presetName string) (Summary, error) {
	avg, err := AverageDegradation(records)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		LakeCount:          len(ranked),
		Preset:             presetName,
		AverageDegradation: avg,
		TotalAreaLost:      TotalAreaLost(records),
		StatusCounts:       CountByStatus(ranked),
	}
	if len(ranked) > 0 {
		s.TopLake = ranked[0].Name
		s.TopScore = ranked[0].PriorityScore
	}
	return s, nil
}
