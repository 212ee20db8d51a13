package catalog

import (
	"context"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// builtinLakes is the Tamil Nadu reference catalog: the Chennai-region
// water bodies the monitoring programme started with. Areas are in
// hectares from revenue records and survey baselines; current areas follow
// the recorded degradation figures.
var builtinLakes = []model.LakeRecord{
	{
		Name: "Chembarambakkam", District: "Kancheepuram",
		Lat: 13.0025, Lon: 80.0544,
		AreaBaseline: 2100, AreaCurrent: 735, DegradationPct: 65,
		PopulationImpact: 9800, FloodRisk: 8,
		PollutionIndex: model.Float64Ptr(32), EncroachmentPct: model.Float64Ptr(18),
	},
	{
		Name: "Puzhal", District: "Tiruvallur",
		Lat: 13.1645, Lon: 80.1722,
		AreaBaseline: 1900, AreaCurrent: 1045, DegradationPct: 45,
		PopulationImpact: 7200, FloodRisk: 6,
		PollutionIndex: model.Float64Ptr(28), EncroachmentPct: model.Float64Ptr(12),
	},
	{
		Name: "Velachery", District: "Chennai",
		Lat: 12.9791, Lon: 80.2212,
		AreaBaseline: 106, AreaCurrent: 29.68, DegradationPct: 72,
		PopulationImpact: 8500, FloodRisk: 9,
		PollutionIndex: model.Float64Ptr(41), EncroachmentPct: model.Float64Ptr(38),
	},
	{
		Name: "Korattur", District: "Chennai",
		Lat: 13.1063, Lon: 80.1824,
		AreaBaseline: 940, AreaCurrent: 582.8, DegradationPct: 38,
		PopulationImpact: 2100, FloodRisk: 4,
		PollutionIndex: model.Float64Ptr(22), EncroachmentPct: model.Float64Ptr(15),
	},
	{
		Name: "Ambattur", District: "Chennai",
		Lat: 13.1143, Lon: 80.1548,
		AreaBaseline: 380, AreaCurrent: 171, DegradationPct: 55,
		PopulationImpact: 5600, FloodRisk: 7,
		PollutionIndex: model.Float64Ptr(30), EncroachmentPct: model.Float64Ptr(21),
	},
	{
		Name: "Retteri", District: "Chennai",
		Lat: 13.1344, Lon: 80.2142,
		AreaBaseline: 105, AreaCurrent: 42, DegradationPct: 60,
		PopulationImpact: 4800, FloodRisk: 7,
		PollutionIndex: model.Float64Ptr(35), EncroachmentPct: model.Float64Ptr(26),
	},
	{
		Name: "Porur", District: "Chennai",
		Lat: 13.0338, Lon: 80.1572,
		AreaBaseline: 220, AreaCurrent: 105.6, DegradationPct: 52,
		PopulationImpact: 3900, FloodRisk: 5,
		PollutionIndex: model.Float64Ptr(27), EncroachmentPct: model.Float64Ptr(19),
	},
	{
		Name: "Sholavaram", District: "Tiruvallur",
		Lat: 13.2486, Lon: 80.2232,
		AreaBaseline: 1330, AreaCurrent: 931, DegradationPct: 30,
		PopulationImpact: 1400, FloodRisk: 3,
		PollutionIndex: model.Float64Ptr(18), EncroachmentPct: model.Float64Ptr(8),
	},
	{
		Name: "Chitlapakkam", District: "Chengalpattu",
		Lat: 12.9270, Lon: 80.1448,
		AreaBaseline: 48, AreaCurrent: 15.36, DegradationPct: 68,
		PopulationImpact: 3100, FloodRisk: 8,
		PollutionIndex: model.Float64Ptr(38), EncroachmentPct: model.Float64Ptr(33),
	},
	{
		Name: "Madhavaram", District: "Chennai",
		Lat: 13.1487, Lon: 80.2311,
		AreaBaseline: 60, AreaCurrent: 25.2, DegradationPct: 58,
		PopulationImpact: 2600, FloodRisk: 6,
		PollutionIndex: model.Float64Ptr(33), EncroachmentPct: model.Float64Ptr(24),
	},
}

// StaticSource serves the built-in reference catalog.
type StaticSource struct{}

// NewStaticSource returns the built-in catalog source.
func NewStaticSource() *StaticSource { return &StaticSource{} }

// Name implements Source.
func (s *StaticSource) Name() string { return SourceStatic }

// Load returns a deep copy of the built-in catalog so callers can modify
// records, including the pointer-valued attributes, without touching the
// shared table.
func (s *StaticSource) Load(_ context.Context) ([]model.LakeRecord, error) {
	return cloneRecords(builtinLakes), nil
}

func cloneRecords(in []model.LakeRecord) []model.LakeRecord {
	out := make([]model.LakeRecord, len(in))
	for i, r := range in {
		out[i] = r
		if r.PollutionIndex != nil {
			out[i].PollutionIndex = model.Float64Ptr(*r.PollutionIndex)
		}
		if r.EncroachmentPct != nil {
			out[i].EncroachmentPct = model.Float64Ptr(*r.EncroachmentPct)
		}
	}
	return out
}
