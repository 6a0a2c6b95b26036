// Package catalog loads strategy descriptions (name, behavior, strengths,
// weaknesses) from YAML for display. The descriptions are presentation
// material only — the engine never reads them. Loader and Formatter are
// injected so callers can swap file formats or output styles at the boundary
// without touching the service.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Description is the display copy for one strategy.
type Description struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Behavior    string `yaml:"behavior"`
	Strengths   string `yaml:"strengths"`
	Weaknesses  string `yaml:"weaknesses"`
}

// Loader reads raw strategy descriptions from a source.
type Loader interface {
	Load(path string) (map[string]Description, error)
}

// Formatter renders one description for output.
type Formatter interface {
	Format(d Description) string
}

// YAMLLoader loads descriptions from a YAML file with a top-level
// "strategies" map keyed by strategy kind.
type YAMLLoader struct{}

func (YAMLLoader) Load(path string) (map[string]Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy descriptions: %w", err)
	}

	var doc struct {
		Strategies map[string]Description `yaml:"strategies"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse strategy descriptions %s: %w", path, err)
	}
	return doc.Strategies, nil
}

// TextFormatter renders a description as plain indented text for terminals.
type TextFormatter struct{}

func (TextFormatter) Format(d Description) string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.Description != "" {
		b.WriteString("\n  ")
		b.WriteString(d.Description)
	}
	if d.Behavior != "" {
		b.WriteString("\n  Behavior: ")
		b.WriteString(d.Behavior)
	}
	if d.Strengths != "" {
		b.WriteString("\n  Strengths: ")
		b.WriteString(d.Strengths)
	}
	if d.Weaknesses != "" {
		b.WriteString("\n  Weaknesses: ")
		b.WriteString(d.Weaknesses)
	}
	return b.String()
}

// Service loads, formats, and caches strategy descriptions. Safe for
// concurrent use; the HTTP server shares one instance across requests.
type Service struct {
	loader    Loader
	formatter Formatter
	path      string

	mu    sync.Mutex
	cache map[string]string
}

// NewService creates a catalog service reading from path.
func NewService(loader Loader, formatter Formatter, path string) *Service {
	return &Service{loader: loader, formatter: formatter, path: path}
}

// Descriptions returns formatted descriptions keyed by strategy kind,
// loading and caching them on first use.
func (s *Service) Descriptions() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	out := make(map[string]string, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out, nil
}

// Description returns one formatted description, or "" if the kind has no
// catalog entry.
func (s *Service) Description(key string) (string, error) {
	descs, err := s.Descriptions()
	if err != nil {
		return "", err
	}
	return descs[key], nil
}

// Keys returns the catalogued strategy kinds in sorted order.
func (s *Service) Keys() ([]string, error) {
	descs, err := s.Descriptions()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(descs))
	for k := range descs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Reload clears the cache and reloads from the source.
func (s *Service) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	return s.load()
}

// load rebuilds the cache. Callers must hold mu.
func (s *Service) load() error {
	raw, err := s.loader.Load(s.path)
	if err != nil {
		return err
	}
	s.cache = make(map[string]string, len(raw))
	for key, d := range raw {
		s.cache[key] = s.formatter.Format(d)
	}
	return nil
}
