package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/banachtech/phoenix/product"
)

type fileScenario struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Paths       map[string][]float64 `yaml:"paths"`
}

type scenarioFile struct {
	Scenarios []fileScenario `yaml:"scenarios"`
}

// Parse decodes a YAML scenario set:
//
//	scenarios:
//	  - name: crash
//	    description: hard sell-off
//	    paths:
//	      SX5E: [1800, 1500, 1200]
func Parse(raw []byte) ([]Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, errors.New("no scenarios declared")
	}
	out := make([]Scenario, len(f.Scenarios))
	for i, fs := range f.Scenarios {
		if fs.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", i)
		}
		if len(fs.Paths) == 0 {
			return nil, fmt.Errorf("scenario %q has no paths", fs.Name)
		}
		out[i] = Scenario{
			Name:        fs.Name,
			Description: fs.Description,
			Prices:      product.NewPriceSetFromFloats(fs.Paths),
		}
	}
	return out, nil
}

// Load reads a YAML scenario set from disk.
func Load(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	return Parse(raw)
}
