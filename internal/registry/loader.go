package registry

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fieldlog/geoverify/internal/input"
)

// Load reads a site-coordinates file into a Registry, dispatching on the
// file extension. Supported: CSV, XLSX, YAML, and ESRI point shapefiles.
func Load(path string) (*Registry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".shp":
		return loadShapefile(path)
	default:
		rows, err := input.ReadTable(path)
		if err != nil {
			return nil, err
		}
		return FromRows(rows)
	}
}

// LoadBytes reads an in-memory site-coordinates upload. Shapefiles are not
// supported over uploads (they span multiple files).
func LoadBytes(name string, data []byte) (*Registry, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return registryFromYAML(data)
	case ".shp":
		return nil, eris.New("registry: shapefile uploads are not supported")
	default:
		rows, err := input.ReadTableBytes(name, data)
		if err != nil {
			return nil, err
		}
		return FromRows(rows)
	}
}

// FromRows builds a Registry from tabular rows. The header may sit in the
// first or second row; columns are matched by case-insensitive substrings
// ("site"+"name" or "site", "lat", "lon") to tolerate naming variance.
// Rows with a blank name or non-numeric coordinates are skipped. Zero usable
// sites is a structural defect.
func FromRows(rows [][]string) (*Registry, error) {
	header, dataStart, err := findSiteHeader(rows)
	if err != nil {
		return nil, err
	}

	nameIdx := findColumn(header, "site", "name")
	if nameIdx < 0 {
		nameIdx = findColumn(header, "site")
	}
	latIdx := findColumn(header, "lat")
	lonIdx := findColumn(header, "lon")

	var sites []Site
	var skipped int
	for _, row := range rows[dataStart:] {
		name := cellAt(row, nameIdx)
		lat, latErr := strconv.ParseFloat(cellAt(row, latIdx), 64)
		lon, lonErr := strconv.ParseFloat(cellAt(row, lonIdx), 64)
		if name == "" || latErr != nil || lonErr != nil {
			skipped++
			continue
		}
		sites = append(sites, Site{Name: name, Latitude: lat, Longitude: lon})
	}

	if len(sites) == 0 {
		return nil, eris.New("registry: no valid site rows found; latitude/longitude cells must be numeric")
	}
	if skipped > 0 {
		zap.L().Warn("registry: skipped unusable site rows", zap.Int("skipped", skipped))
	}

	return New(sites), nil
}

// findSiteHeader locates the header row among the first two rows: the first
// row containing site-name, latitude, and longitude columns wins.
func findSiteHeader(rows [][]string) ([]string, int, error) {
	for i := 0; i < len(rows) && i < 2; i++ {
		header := rows[i]
		hasName := findColumn(header, "site", "name") >= 0 || findColumn(header, "site") >= 0
		if hasName && findColumn(header, "lat") >= 0 && findColumn(header, "lon") >= 0 {
			return header, i + 1, nil
		}
	}
	return nil, 0, eris.New("registry: site file missing columns (need site name, latitude, longitude)")
}

// findColumn returns the index of the first column whose lowercased name
// contains every keyword, or -1.
func findColumn(header []string, keywords ...string) int {
	for i, col := range header {
		low := strings.ToLower(strings.TrimSpace(col))
		match := true
		for _, k := range keywords {
			if !strings.Contains(low, k) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func loadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read yaml site file")
	}
	return registryFromYAML(data)
}

func registryFromYAML(data []byte) (*Registry, error) {
	var doc struct {
		Sites []Site `yaml:"sites"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal yaml site file")
	}
	if len(doc.Sites) == 0 {
		return nil, eris.New("registry: yaml site file lists no sites")
	}
	return New(doc.Sites), nil
}

// loadShapefile reads site points from an ESRI shapefile. The site name is
// taken from the first attribute field containing "site" or "name".
func loadShapefile(path string) (*Registry, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		low := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		if strings.Contains(low, "site") || strings.Contains(low, "name") {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.New("registry: shapefile has no site-name attribute field")
	}

	var sites []Site
	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			continue
		}
		name := strings.TrimSpace(reader.Attribute(nameIdx))
		if name == "" {
			continue
		}
		sites = append(sites, Site{Name: name, Latitude: point.Y, Longitude: point.X})
	}

	if len(sites) == 0 {
		return nil, eris.New("registry: shapefile contains no usable site points")
	}
	return New(sites), nil
}
