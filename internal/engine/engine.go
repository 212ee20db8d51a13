// Package engine derives restoration priorities for water bodies: a
// weighted score per lake, a severity status by threshold, and a stable
// ranked queue. Every function is a pure computation over its arguments
// and returns fresh values, so concurrent callers need no coordination.
package engine

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// maxScore caps the priority score before classification. There is no
// lower clamp: all terms are additive over non-negative attributes.
const maxScore = 100.0

// Score computes the raw weighted sum for one record under the given
// weights. A missing optional attribute that the weights consult is a
// configuration error, never defaulted. Callers cap the result at 100
// before classification; Rank does this for them.
func Score(rec model.LakeRecord, w WeightConfig) (float64, error) {
	raw := rec.DegradationPct * w.DegradationWeight

	if w.PopulationWeight > 0 {
		raw += rec.PopulationImpact / w.PopulationDivisor * w.PopulationWeight
	}
	if w.FloodWeight > 0 {
		raw += float64(rec.FloodRisk) * w.FloodScale * w.FloodWeight
	}
	if w.RequiresPollution() {
		if rec.PollutionIndex == nil {
			return 0, eris.Wrapf(ErrConfiguration, "lake %q: weights %q require pollution_index, record has none", rec.Name, w.Name)
		}
		raw += *rec.PollutionIndex * w.PollutionScale * w.PollutionWeight
	}
	if w.RequiresEncroachment() {
		if rec.EncroachmentPct == nil {
			return 0, eris.Wrapf(ErrConfiguration, "lake %q: weights %q require encroachment_pct, record has none", rec.Name, w.Name)
		}
		raw += *rec.EncroachmentPct * w.EncroachmentWeight
	}

	return raw, nil
}

// Classify maps a score to its status under the given scheme. Bands are
// exclusive-lower: a score exactly on a threshold takes the band below.
func Classify(score float64, scheme ClassificationScheme) model.Status {
	for _, b := range scheme.Bands {
		if score > b.Above {
			return b.Status
		}
	}
	return scheme.Floor
}

// Rank scores and classifies every record and returns the restoration
// queue ordered by priority score descending. The sort is stable, so
// records with equal scores keep their input order. The input slice is
// never mutated; scores are capped at 100 and rounded to two decimals
// before classification.
func Rank(records []model.LakeRecord, preset Preset) ([]model.ScoredLake, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]model.ScoredLake, 0, len(records))
	for _, rec := range records {
		raw, err := Score(rec, preset.Weights)
		if err != nil {
			return nil, err
		}
		score := math.Min(maxScore, raw)
		score = math.Round(score*100) / 100

		ranked = append(ranked, model.ScoredLake{
			LakeRecord:    rec,
			PriorityScore: score,
			Status:        Classify(score, preset.Scheme),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	return ranked, nil
}
