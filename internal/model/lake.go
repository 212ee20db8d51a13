package model

import (
	"github.com/rotisserie/eris"
)

// Status is the severity bucket assigned to a lake by score thresholding.
type Status string

const (
	StatusCritical Status = "Critical"
	StatusHigh     Status = "High"
	StatusModerate Status = "Moderate"
	StatusLow      Status = "Low"
)

// AllStatuses lists every status label, most severe first. Consumers render
// fixed-width tables and charts, so aggregations must cover all of them even
// when a count is zero.
var AllStatuses = []Status{StatusCritical, StatusHigh, StatusModerate, StatusLow}

// severityRank orders statuses so comparisons never depend on string order.
var severityRank = map[Status]int{
	StatusLow:      0,
	StatusModerate: 1,
	StatusHigh:     2,
	StatusCritical: 3,
}

// Severity returns the numeric rank of s; higher is more severe.
// Unknown labels rank below Low.
func (s Status) Severity() int {
	r, ok := severityRank[s]
	if !ok {
		return -1
	}
	return r
}

// AtLeast reports whether s is at least as severe as other.
func (s Status) AtLeast(other Status) bool {
	return s.Severity() >= other.Severity()
}

// LakeRecord is one observed or synthetic water body. Optional attributes
// are pointers so "absent" stays distinguishable from an explicit zero;
// whether an absent attribute is an error depends on the weighting preset
// in use, not on the record itself.
type LakeRecord struct {
	Name             string   `json:"name" yaml:"name"`
	District         string   `json:"district,omitempty" yaml:"district,omitempty"`
	Lat              float64  `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon              float64  `json:"lon,omitempty" yaml:"lon,omitempty"`
	AreaBaseline     float64  `json:"area_baseline" yaml:"area_baseline"`
	AreaCurrent      float64  `json:"area_current" yaml:"area_current"`
	DegradationPct   float64  `json:"degradation_pct" yaml:"degradation_pct"`
	PopulationImpact float64  `json:"population_impact" yaml:"population_impact"`
	FloodRisk        int      `json:"flood_risk" yaml:"flood_risk"`
	PollutionIndex   *float64 `json:"pollution_index,omitempty" yaml:"pollution_index,omitempty"`
	EncroachmentPct  *float64 `json:"encroachment_pct,omitempty" yaml:"encroachment_pct,omitempty"`
}

// AreaLost returns baseline minus current area in hectares. The result may
// be negative when the current observation exceeds the baseline; callers
// decide whether that matters.
func (l LakeRecord) AreaLost() float64 {
	return l.AreaBaseline - l.AreaCurrent
}

// DerivedDegradation computes degradation from the two area observations.
// Records usually carry DegradationPct directly; this is for catalogs that
// only supply areas.
func (l LakeRecord) DerivedDegradation() (float64, error) {
	if l.AreaBaseline == 0 {
		return 0, eris.Errorf("lake %q: cannot derive degradation with zero baseline area", l.Name)
	}
	return (l.AreaBaseline - l.AreaCurrent) / l.AreaBaseline * 100, nil
}

// HasCoordinates reports whether the record carries a usable point location.
func (l LakeRecord) HasCoordinates() bool {
	return l.Lat != 0 || l.Lon != 0
}

// ScoredLake is a LakeRecord plus its derived priority score and status.
// Scoring never mutates the input record; each pass produces fresh values.
type ScoredLake struct {
	LakeRecord
	PriorityScore float64 `json:"priority_score" yaml:"priority_score"`
	Status        Status  `json:"status" yaml:"status"`
}

// Float64Ptr returns a pointer to v, for building records with optional
// attributes inline.
func Float64Ptr(v float64) *float64 {
	return &v
}
