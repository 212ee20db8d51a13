package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// Built-in preset names, selectable from config, CLI flags, and the API.
const (
	PresetBasic    = "basic"
	PresetExtended = "extended"
)

// WeightConfig names the attributes a weighting scheme consults and their
// coefficients. Scale factors bring each raw attribute onto a comparable
// range before its coefficient applies. A zero coefficient means the
// attribute is not consulted at all and need not be present on records.
type WeightConfig struct {
	Name string `json:"name" yaml:"name"`

	DegradationWeight  float64 `json:"degradation_weight" yaml:"degradation_weight"`
	PopulationWeight   float64 `json:"population_weight" yaml:"population_weight"`
	FloodWeight        float64 `json:"flood_weight" yaml:"flood_weight"`
	PollutionWeight    float64 `json:"pollution_weight" yaml:"pollution_weight"`
	EncroachmentWeight float64 `json:"encroachment_weight" yaml:"encroachment_weight"`

	// Scale factors applied to raw attribute values before weighting.
	PopulationDivisor float64 `json:"population_divisor" yaml:"population_divisor"`
	FloodScale        float64 `json:"flood_scale" yaml:"flood_scale"`
	PollutionScale    float64 `json:"pollution_scale" yaml:"pollution_scale"`
}

// WeightSum returns the sum of all attribute coefficients.
func (w WeightConfig) WeightSum() float64 {
	return w.DegradationWeight + w.PopulationWeight + w.FloodWeight +
		w.PollutionWeight + w.EncroachmentWeight
}

// weightSumTolerance absorbs float accumulation noise when checking that
// coefficients sum to exactly 1.
const weightSumTolerance = 1e-9

// Validate checks that the weight config is internally consistent:
// non-negative coefficients summing to 1, and positive scale factors for
// every attribute that carries weight.
func (w WeightConfig) Validate() error {
	var errs []string

	weights := map[string]float64{
		"degradation_weight":  w.DegradationWeight,
		"population_weight":   w.PopulationWeight,
		"flood_weight":        w.FloodWeight,
		"pollution_weight":    w.PollutionWeight,
		"encroachment_weight": w.EncroachmentWeight,
	}
	for name, wt := range weights {
		if wt < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if sum := w.WeightSum(); math.Abs(sum-1.0) > weightSumTolerance {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.6f", sum))
	}

	if w.PopulationWeight > 0 && w.PopulationDivisor <= 0 {
		errs = append(errs, "population_divisor must be > 0 when population carries weight")
	}
	if w.FloodWeight > 0 && w.FloodScale <= 0 {
		errs = append(errs, "flood_scale must be > 0 when flood risk carries weight")
	}
	if w.PollutionWeight > 0 && w.PollutionScale <= 0 {
		errs = append(errs, "pollution_scale must be > 0 when pollution carries weight")
	}

	if len(errs) > 0 {
		return eris.Wrapf(ErrConfiguration, "weights %q: %s", w.Name, strings.Join(errs, "; "))
	}
	return nil
}

// RequiresPollution reports whether records must carry pollution_index.
func (w WeightConfig) RequiresPollution() bool { return w.PollutionWeight > 0 }

// RequiresEncroachment reports whether records must carry encroachment_pct.
func (w WeightConfig) RequiresEncroachment() bool { return w.EncroachmentWeight > 0 }

// Band assigns a status to every score strictly above its threshold.
type Band struct {
	Above  float64      `json:"above" yaml:"above"`
	Status model.Status `json:"status" yaml:"status"`
}

// ClassificationScheme maps a priority score to a status through ordered
// threshold bands. Bands are checked top-down, so they must be sorted by
// descending threshold; a score that clears no band gets the Floor status.
// Boundaries are exclusive-lower: a score equal to a threshold falls into
// the band below it.
type ClassificationScheme struct {
	Name  string       `json:"name" yaml:"name"`
	Bands []Band       `json:"bands" yaml:"bands"`
	Floor model.Status `json:"floor" yaml:"floor"`
}

// Validate checks that the scheme is a monotonic step function: thresholds
// strictly descending and severities strictly decreasing down to the floor.
func (c ClassificationScheme) Validate() error {
	var errs []string

	if len(c.Bands) == 0 {
		errs = append(errs, "at least one band is required")
	}
	if c.Floor.Severity() < 0 {
		errs = append(errs, fmt.Sprintf("unknown floor status %q", c.Floor))
	}

	prevSeverity := math.MaxInt
	prevAbove := math.Inf(1)
	for i, b := range c.Bands {
		if b.Status.Severity() < 0 {
			errs = append(errs, fmt.Sprintf("band %d: unknown status %q", i, b.Status))
			continue
		}
		if b.Above >= prevAbove {
			errs = append(errs, fmt.Sprintf("band %d: threshold %.2f not below previous %.2f", i, b.Above, prevAbove))
		}
		if b.Status.Severity() >= prevSeverity {
			errs = append(errs, fmt.Sprintf("band %d: status %q not less severe than previous", i, b.Status))
		}
		prevAbove = b.Above
		prevSeverity = b.Status.Severity()
	}
	if len(c.Bands) > 0 && c.Floor.Severity() >= prevSeverity {
		errs = append(errs, fmt.Sprintf("floor %q must be less severe than the last band", c.Floor))
	}

	if len(errs) > 0 {
		return eris.Wrapf(ErrConfiguration, "scheme %q: %s", c.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Preset binds a weighting config to the classification scheme used with
// it. The pairing is explicit rather than implied by name so future presets
// can mix weights and schemes independently.
type Preset struct {
	Weights WeightConfig
	Scheme  ClassificationScheme
}

// Validate checks both halves of the preset.
func (p Preset) Validate() error {
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	return p.Scheme.Validate()
}

// BasicWeights returns the three-attribute weighting:
// degradation*0.4 + (population/100)*0.3 + (flood*2.5)*0.3.
func BasicWeights() WeightConfig {
	return WeightConfig{
		Name:              PresetBasic,
		DegradationWeight: 0.4,
		PopulationWeight:  0.3,
		FloodWeight:       0.3,
		PopulationDivisor: 100,
		FloodScale:        2.5,
	}
}

// ExtendedWeights returns the five-attribute weighting:
// degradation*0.35 + (population/100)*0.25 + (flood*2.5)*0.20 +
// (pollution*2)*0.15 + encroachment*0.05.
func ExtendedWeights() WeightConfig {
	return WeightConfig{
		Name:               PresetExtended,
		DegradationWeight:  0.35,
		PopulationWeight:   0.25,
		FloodWeight:        0.20,
		PollutionWeight:    0.15,
		EncroachmentWeight: 0.05,
		PopulationDivisor:  100,
		FloodScale:         2.5,
		PollutionScale:     2.0,
	}
}

// ThreeTierScheme classifies into Critical/High/Moderate:
// >70 Critical, >50 High, otherwise Moderate.
func ThreeTierScheme() ClassificationScheme {
	return ClassificationScheme{
		Name: "three-tier",
		Bands: []Band{
			{Above: 70, Status: model.StatusCritical},
			{Above: 50, Status: model.StatusHigh},
		},
		Floor: model.StatusModerate,
	}
}

// FourTierScheme classifies into Critical/High/Moderate/Low:
// >75 Critical, >55 High, >35 Moderate, otherwise Low.
func FourTierScheme() ClassificationScheme {
	return ClassificationScheme{
		Name: "four-tier",
		Bands: []Band{
			{Above: 75, Status: model.StatusCritical},
			{Above: 55, Status: model.StatusHigh},
			{Above: 35, Status: model.StatusModerate},
		},
		Floor: model.StatusLow,
	}
}

// LookupPreset resolves a preset name to its weight/scheme pairing:
// basic pairs with the three-tier scheme, extended with the four-tier one.
func LookupPreset(name string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetBasic:
		return Preset{Weights: BasicWeights(), Scheme: ThreeTierScheme()}, nil
	case PresetExtended:
		return Preset{Weights: ExtendedWeights(), Scheme: FourTierScheme()}, nil
	default:
		return Preset{}, eris.Wrapf(ErrConfiguration, "unknown preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
}

// PresetNames lists the built-in preset names.
func PresetNames() []string {
	return []string{PresetBasic, PresetExtended}
}
