// Package config loads the experiment and domain catalog.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fliptech/ftab/internal/domain"
	"github.com/fliptech/ftab/internal/experiment"
)

// Catalog is the static configuration of the site: every experiment and
// every served domain.
type Catalog struct {
	DefaultDomain string                  `yaml:"default_domain"`
	Experiments   []experiment.Experiment `yaml:"experiments"`
	Domains       []domain.DomainConfig   `yaml:"domains"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		DefaultDomain: domain.DefaultDomain,
		Experiments:   experiment.DefaultExperiments(),
		Domains:       domain.DefaultConfigs(),
	}
}

// Load reads a YAML catalog. Sections omitted from the file keep their
// built-in values. An empty path returns the built-in catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (Catalog, error) {
	var file Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := Default()
	if file.DefaultDomain != "" {
		c.DefaultDomain = file.DefaultDomain
	}
	if len(file.Experiments) > 0 {
		c.Experiments = file.Experiments
	}
	if len(file.Domains) > 0 {
		c.Domains = file.Domains
	}

	if _, err := c.Registry(); err != nil {
		return Catalog{}, err
	}
	if _, err := c.Resolver(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Registry builds the experiment registry.
func (c Catalog) Registry() (*experiment.Registry, error) {
	r, err := experiment.NewRegistry(c.Experiments...)
	if err != nil {
		return nil, fmt.Errorf("invalid experiments: %w", err)
	}
	return r, nil
}

// Resolver builds the domain resolver.
func (c Catalog) Resolver() (*domain.Resolver, error) {
	r, err := domain.NewResolver(c.DefaultDomain, c.Domains...)
	if err != nil {
		return nil, fmt.Errorf("invalid domains: %w", err)
	}
	return r, nil
}
