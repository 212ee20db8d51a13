package export

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// Format names accepted by Write and the export command.
const (
	FormatCSV       = "csv"
	FormatXLSX      = "xlsx"
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shp"
	FormatAll       = "all"
)

// Write serializes the ranked queue in the named format to files derived
// from base ("base.csv", "base.xlsx", ...). It returns the paths written.
func Write(ctx context.Context, format, base string, ranked []model.ScoredLake) ([]string, error) {
	switch format {
	case FormatCSV:
		path := base + ".csv"
		return []string{path}, writeCSVFile(path, ranked)
	case FormatXLSX:
		path := base + ".xlsx"
		return []string{path}, WriteXLSX(path, ranked)
	case FormatGeoJSON:
		path := base + ".geojson"
		return []string{path}, writeGeoJSONFile(path, ranked)
	case FormatShapefile:
		path := base + ".shp"
		_, err := WriteShapefile(path, ranked)
		return []string{path}, err
	case FormatAll:
		return WriteAll(ctx, base, ranked)
	default:
		return nil, eris.Errorf("export: unsupported format %q (known: csv, xlsx, geojson, shp, all)", format)
	}
}

// WriteAll writes every format concurrently under a shared basename. The
// writers touch disjoint files, so they need no coordination beyond the
// group.
func WriteAll(ctx context.Context, base string, ranked []model.ScoredLake) ([]string, error) {
	paths := []string{base + ".csv", base + ".xlsx", base + ".geojson", base + ".shp"}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return writeCSVFile(paths[0], ranked) })
	g.Go(func() error { return WriteXLSX(paths[1], ranked) })
	g.Go(func() error { return writeGeoJSONFile(paths[2], ranked) })
	g.Go(func() error {
		_, err := WriteShapefile(paths[3], ranked)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeCSVFile(path string, ranked []model.ScoredLake) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return WriteCSV(f, ranked)
}

func writeGeoJSONFile(path string, ranked []model.ScoredLake) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	_, err = WriteGeoJSON(f, ranked)
	return err
}
