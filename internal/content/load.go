package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML portfolio from path on top of Default. Keys missing from
// the file keep their default values; lists present in the file replace the
// default lists entirely. An empty path or a missing file yields Default.
func Load(path string) (Portfolio, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return Portfolio{}, fmt.Errorf("reading content %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Portfolio{}, fmt.Errorf("parsing content %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Portfolio{}, fmt.Errorf("invalid content %s: %w", path, err)
	}
	return p, nil
}
