package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Indicator is one catalog entry describing a collectable indicator code.
type Indicator struct {
	Code      string `yaml:"code" json:"code"`
	Name      string `yaml:"name" json:"name"`
	Unit      string `yaml:"unit" json:"unit"`
	Frequency string `yaml:"frequency" json:"frequency"`
}

type catalogFile struct {
	Indicators []Indicator `yaml:"indicators"`
}

// Catalog holds the loaded indicator catalog. Empty when no catalog file is
// configured, in which case indicator codes are not validated.
var Catalog []Indicator

func LoadCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var parsed catalogFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return err
	}
	Catalog = parsed.Indicators
	return nil
}

// KnownIndicator reports whether the code appears in the catalog. With no
// catalog loaded every code is accepted.
func KnownIndicator(code string) bool {
	if len(Catalog) == 0 {
		return true
	}
	for _, ind := range Catalog {
		if ind.Code == code {
			return true
		}
	}
	return false
}
