package sources

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/refcanon/refcanon/pkg/errors"
)

// FileSource describes one file-backed dataset drop.
type FileSource struct {
	File    string `yaml:"file"`              // file name relative to the manifest dir
	Sheet   string `yaml:"sheet,omitempty"`   // worksheet name for workbook sources
	RowFrom int    `yaml:"rowFrom,omitempty"` // fixed row range start for legacy sheets
	RowTo   int    `yaml:"rowTo,omitempty"`   // fixed row range end, exclusive
	Version string `yaml:"version,omitempty"` // declared source version; file name when empty
}

// APISource describes the remote paginated dataset.
type APISource struct {
	URL               string `yaml:"url"`
	PageSize          int    `yaml:"pageSize,omitempty"`
	MaxAttempts       int    `yaml:"maxAttempts,omitempty"`
	RetryDelaySeconds int    `yaml:"retryDelaySeconds,omitempty"`
}

// RetryDelay returns the fixed delay between retry attempts.
func (a APISource) RetryDelay() time.Duration {
	if a.RetryDelaySeconds <= 0 {
		return DefaultRetryDelay
	}
	return time.Duration(a.RetryDelaySeconds) * time.Second
}

// Manifest describes one drop directory: where each dataset's source
// lives and which version it declares. Operators point the binary at
// any drop by swapping the manifest.
type Manifest struct {
	Dir string `yaml:"dir"` // base directory for relative file names

	Regions             FileSource `yaml:"regions"`
	Magistrates         FileSource `yaml:"magistrates"`
	HealthCareDistricts FileSource `yaml:"healthCareDistricts"`
	ElectoralDistricts  FileSource `yaml:"electoralDistricts"`
	Municipalities      FileSource `yaml:"municipalities"`
	PostalCodes         FileSource `yaml:"postalCodes"`
	StreetAddresses     FileSource `yaml:"streetAddresses"`
	BusinessIDs         APISource  `yaml:"businessIds"`
	CodeRegistries      FileSource `yaml:"codeRegistries"`
	CodeSchemes         FileSource `yaml:"codeSchemes"`
	Codes               FileSource `yaml:"codes"`
}

// LoadManifest reads and parses the YAML manifest at path. Relative
// file names resolve against the manifest's own directory unless the
// manifest declares a dir of its own.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if m.Dir == "" {
		m.Dir = filepath.Dir(path)
	}
	return &m, nil
}

// Path resolves a source file name against the manifest dir.
func (m *Manifest) Path(src FileSource) string {
	if filepath.IsAbs(src.File) {
		return src.File
	}
	return filepath.Join(m.Dir, src.File)
}

// version returns the gate version for a file source: the declared
// version when present, the file name otherwise.
func version(src FileSource) string {
	if src.Version != "" {
		return src.Version
	}
	return src.File
}
