package usecase

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"royalty-analytics-service/internal/ingestion/core/domain"
)

//go:embed platforms.yaml
var defaultPlatformsYAML []byte

type registryFile struct {
	Platforms []domain.PlatformStrategy `yaml:"platforms"`
}

// PlatformRegistry resolves a user supplied platform name to its strategy.
type PlatformRegistry struct {
	byKey      map[string]*domain.PlatformStrategy
	strategies []domain.PlatformStrategy
}

// DefaultPlatformRegistry parses the embedded routing table.
func DefaultPlatformRegistry() (*PlatformRegistry, error) {
	return ParsePlatformRegistry(defaultPlatformsYAML)
}

// LoadPlatformRegistry reads the table from path, or the embedded default
// when path is empty.
func LoadPlatformRegistry(path string) (*PlatformRegistry, error) {
	if path == "" {
		return DefaultPlatformRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform config: %w", err)
	}
	return ParsePlatformRegistry(data)
}

func ParsePlatformRegistry(data []byte) (*PlatformRegistry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse platform config: %w", err)
	}
	if len(file.Platforms) == 0 {
		return nil, fmt.Errorf("platform config defines no platforms")
	}

	reg := &PlatformRegistry{
		byKey:      make(map[string]*domain.PlatformStrategy),
		strategies: file.Platforms,
	}
	for i := range reg.strategies {
		s := &reg.strategies[i]
		if s.Name == "" || s.Store == "" {
			return nil, fmt.Errorf("platform %d: name and store are required", i)
		}
		for _, key := range append([]string{s.Name}, s.Aliases...) {
			k := platformKey(key)
			if other, dup := reg.byKey[k]; dup && other != s {
				return nil, fmt.Errorf("platform alias %q used by %s and %s", key, other.Name, s.Name)
			}
			reg.byKey[k] = s
		}
	}
	return reg, nil
}

// Lookup matches names ignoring case, spaces, dashes and underscores.
func (r *PlatformRegistry) Lookup(platform string) (domain.PlatformStrategy, bool) {
	s, ok := r.byKey[platformKey(platform)]
	if !ok {
		return domain.PlatformStrategy{}, false
	}
	return *s, true
}

func (r *PlatformRegistry) Platforms() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name
	}
	return names
}

var keyStripper = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "")

func platformKey(s string) string {
	return keyStripper.Replace(strings.ToLower(strings.TrimSpace(s)))
}
