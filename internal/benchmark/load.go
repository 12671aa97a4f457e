package benchmark

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

//go:embed defaults/benchmarks.yaml
var defaultBenchmarks []byte

// referenceFile is the on-disk shape of the benchmark reference table.
type referenceFile struct {
	Industries map[string]map[string]Reference `yaml:"industries"`
	Aliases    map[string]string               `yaml:"aliases"`
}

// UnmarshalYAML accepts a reference as either a bare number (the median
// itself) or a mapping with median/p25/p75 keys.
func (r *Reference) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var median float64
		if err := node.Decode(&median); err != nil {
			return err
		}
		*r = Reference{Median: median}
		return nil
	}

	type plain Reference
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Reference(p)
	return nil
}

// LoadComparator reads the benchmark reference table from the given YAML
// file, falling back to the embedded defaults when path is empty. A missing
// or malformed file fails with model.ErrConfig.
func LoadComparator(path string) (*Comparator, error) {
	data := defaultBenchmarks
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(model.ErrConfig, "benchmark: read reference table %s: %v", path, err)
		}
		data = b
	}

	var file referenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(model.ErrConfig, "benchmark: unmarshal reference table: %v", err)
	}
	if len(file.Industries) == 0 {
		return nil, eris.Wrap(model.ErrConfig, "benchmark: no industries in reference table")
	}

	return NewComparator(file.Industries, file.Aliases), nil
}
