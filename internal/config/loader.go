package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sourcesFile is the YAML shape of a source override file.
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads a YAML source table, replacing the built-in one. Missing
// listing fields get the same defaults the built-in table uses.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for i := range file.Sources {
		setSourceDefaults(&file.Sources[i])
		if file.Sources[i].Name == "" {
			return nil, fmt.Errorf("sources file %s: source %d has no name", path, i)
		}
	}
	return file.Sources, nil
}

func setSourceDefaults(s *Source) {
	if s.Listing.StartPage == 0 {
		s.Listing.StartPage = DefaultStartPage
	}
	if s.Listing.MaxPages == 0 {
		s.Listing.MaxPages = DefaultMaxPages
	}
	if s.Listing.WaitSelector == "" {
		s.Listing.WaitSelector = "body"
	}
	if s.DetailParser == "" {
		s.DetailParser = "generic"
	}
}
