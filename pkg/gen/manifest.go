package gen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/freepool/pkg/errors"
)

// ManifestEntry is one pool instantiation in a batch manifest.
type ManifestEntry struct {
	Package string   `json:"package" yaml:"package"`
	Output  string   `json:"output" yaml:"output"`
	Args    []string `json:"args" yaml:"args"`
}

// Manifest lists several pool instantiations generated in one driver run.
type Manifest struct {
	Instantiations []ManifestEntry `json:"instantiations" yaml:"instantiations"`
}

// Request converts the entry into a generation request, validating the
// required fields.
func (e ManifestEntry) Request() (Request, error) {
	if e.Package == "" || e.Output == "" {
		return Request{}, errors.New(errors.ErrorTypeConfig, "manifest entries need both package and output")
	}
	return Request{Package: e.Package, Output: e.Output, Args: e.Args}, nil
}

// LoadManifest reads a manifest file, parsed as JSON or YAML by extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the CLI
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, fmt.Sprintf("reading manifest %s", path))
	}

	var m Manifest
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("parsing manifest %s", path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("parsing manifest %s", path))
		}
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported manifest extension %q, want .json, .yaml or .yml", ext)
	}

	if len(m.Instantiations) == 0 {
		return nil, errors.Newf(errors.ErrorTypeConfig, "manifest %s lists no instantiations", path)
	}
	return &m, nil
}
