package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// FileSource loads a catalog from a CSV, YAML, JSON, or XLSX file, chosen
// by extension.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading the given catalog file.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

// Name implements Source.
func (s *FileSource) Name() string { return "file:" + filepath.Base(s.Path) }

// Load implements Source.
func (s *FileSource) Load(_ context.Context) ([]model.LakeRecord, error) {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: open csv %s", s.Path)
		}
		defer f.Close() //nolint:errcheck
		return ParseCSV(f)
	case ".yaml", ".yml":
		return loadYAML(s.Path)
	case ".json":
		return loadJSON(s.Path)
	case ".xlsx":
		return loadXLSX(s.Path)
	default:
		return nil, eris.Errorf("catalog: unsupported catalog file extension %q (use .csv, .yaml, .json, or .xlsx)", filepath.Ext(s.Path))
	}
}

// catalogFile is the YAML document shape: a top-level "lakes" list.
type catalogFile struct {
	Lakes []model.LakeRecord `yaml:"lakes" json:"lakes"`
}

func loadYAML(path string) ([]model.LakeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read yaml %s", path)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "catalog: unmarshal yaml %s", path)
	}
	if len(doc.Lakes) == 0 {
		return nil, eris.Errorf("catalog: %s contains no lakes", path)
	}
	return doc.Lakes, nil
}

func loadJSON(path string) ([]model.LakeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read json %s", path)
	}
	var lakes []model.LakeRecord
	if err := json.Unmarshal(data, &lakes); err != nil {
		return nil, eris.Wrapf(err, "catalog: unmarshal json %s", path)
	}
	if len(lakes) == 0 {
		return nil, eris.Errorf("catalog: %s contains no lakes", path)
	}
	return lakes, nil
}

func loadXLSX(path string) ([]model.LakeRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("catalog: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("catalog: %s has no data rows", path)
	}

	header := rowStrings(sheet.Rows[0])
	var lakes []model.LakeRecord
	for i, row := range sheet.Rows[1:] {
		cells := rowStrings(row)
		if emptyRow(cells) {
			continue
		}
		rec, err := parseRecordRow(header, cells, i+2)
		if err != nil {
			return nil, err
		}
		lakes = append(lakes, rec)
	}
	if len(lakes) == 0 {
		return nil, eris.Errorf("catalog: %s contains no lakes", path)
	}
	return lakes, nil
}

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

// ParseCSV reads a header-mapped lake catalog. Recognized columns: name,
// district, lat, lon, area_baseline, area_current, degradation_pct,
// population_impact, flood_risk, pollution_index, encroachment_pct.
// degradation_pct may be left empty when both areas are present; it is then
// derived from them. Shared by the file and ftp sources.
func ParseCSV(r io.Reader) ([]model.LakeRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read csv")
	}
	if len(records) < 2 {
		return nil, eris.New("catalog: csv has no data rows")
	}

	header := records[0]
	var lakes []model.LakeRecord
	for i, row := range records[1:] {
		if emptyRow(row) {
			continue
		}
		rec, err := parseRecordRow(header, row, i+2)
		if err != nil {
			return nil, err
		}
		lakes = append(lakes, rec)
	}
	if len(lakes) == 0 {
		return nil, eris.New("catalog: csv contains no lakes")
	}
	return lakes, nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRecordRow maps one tabular row onto a LakeRecord using the header.
// rowNum is 1-based including the header, for error messages.
func parseRecordRow(header []string, row []string, rowNum int) (model.LakeRecord, error) {
	fields := make(map[string]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if i < len(row) {
			fields[key] = strings.TrimSpace(row[i])
		} else {
			fields[key] = ""
		}
	}

	var rec model.LakeRecord
	rec.Name = fields["name"]
	if rec.Name == "" {
		return rec, eris.Errorf("catalog: row %d: name is required", rowNum)
	}
	rec.District = fields["district"]

	var err error
	if rec.Lat, err = parseFloat(fields["lat"], 0); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): lat", rowNum, rec.Name)
	}
	if rec.Lon, err = parseFloat(fields["lon"], 0); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): lon", rowNum, rec.Name)
	}
	if rec.AreaBaseline, err = parseFloat(fields["area_baseline"], 0); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): area_baseline", rowNum, rec.Name)
	}
	if rec.AreaCurrent, err = parseFloat(fields["area_current"], 0); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): area_current", rowNum, rec.Name)
	}
	if rec.PopulationImpact, err = parseFloat(fields["population_impact"], 0); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): population_impact", rowNum, rec.Name)
	}

	if v := fields["flood_risk"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return rec, eris.Wrapf(err, "catalog: row %d (%s): flood_risk", rowNum, rec.Name)
		}
		rec.FloodRisk = n
	}

	switch {
	case fields["degradation_pct"] != "":
		if rec.DegradationPct, err = parseFloat(fields["degradation_pct"], 0); err != nil {
			return rec, eris.Wrapf(err, "catalog: row %d (%s): degradation_pct", rowNum, rec.Name)
		}
	case rec.AreaBaseline > 0:
		derived, err := rec.DerivedDegradation()
		if err != nil {
			return rec, eris.Wrapf(err, "catalog: row %d", rowNum)
		}
		rec.DegradationPct = derived
	default:
		return rec, eris.Errorf("catalog: row %d (%s): degradation_pct or both areas required", rowNum, rec.Name)
	}

	if rec.PollutionIndex, err = parseOptFloat(fields["pollution_index"]); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): pollution_index", rowNum, rec.Name)
	}
	if rec.EncroachmentPct, err = parseOptFloat(fields["encroachment_pct"]); err != nil {
		return rec, eris.Wrapf(err, "catalog: row %d (%s): encroachment_pct", rowNum, rec.Name)
	}

	return rec, nil
}

func parseFloat(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
