package scheme

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Paths helper for catalog/override files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config; empty means embedded only
}

func (p Paths) CatalogPath() string {
	return filepath.Join(p.BaseDir, "schemes", "catalog.yaml")
}
func (p Paths) OverridePath(scheme string) string {
	return filepath.Join(p.BaseDir, "schemes", "overrides", Slug(scheme)+".yaml")
}

// Slug turns a scheme name into a file name: "Run and Shoot" -> "run-and-shoot".
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Loader reads YAML catalogs and merges catalog → per-scheme overrides.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawCatalog // key: "$catalog" (merged) or "$base"
}

// NewLoader creates a catalog loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawCatalog),
	}
}

// LoadMerged loads the base catalog and applies every offensive scheme override.
// It returns the merged RawCatalog (without validation).
func (l *Loader) LoadMerged() (RawCatalog, error) {
	l.mu.RLock()
	if cfg, ok := l.cache["$catalog"]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	base, err := l.readBase()
	if err != nil {
		return RawCatalog{}, fmt.Errorf("read catalog: %w", err)
	}

	merged := base
	merged.Offense = make([]OffenseConfig, len(base.Offense))
	for i, off := range base.Offense {
		merged.Offense[i] = off
		if l.paths.BaseDir == "" {
			continue
		}
		var over OffenseConfig
		found, err := readYAML(l.paths.OverridePath(off.Name), &over)
		if err != nil {
			return RawCatalog{}, fmt.Errorf("read override %s: %w", off.Name, err)
		}
		if found {
			merged.Offense[i] = mergeOffense(off, over)
		}
	}

	l.mu.Lock()
	l.cache["$base"] = base
	l.cache["$catalog"] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawCatalog)
}

// WatchPaths lists the files whose changes should trigger a reload.
func (l *Loader) WatchPaths() []string {
	if l.paths.BaseDir == "" {
		return nil
	}
	paths := []string{l.paths.CatalogPath()}
	base, err := l.readBase()
	if err != nil {
		return paths
	}
	for _, off := range base.Offense {
		paths = append(paths, l.paths.OverridePath(off.Name))
	}
	return paths
}

func (l *Loader) readBase() (RawCatalog, error) {
	var cfg RawCatalog
	if l.paths.BaseDir != "" {
		found, err := readYAML(l.paths.CatalogPath(), &cfg)
		if err != nil {
			return RawCatalog{}, err
		}
		if found {
			return cfg, nil
		}
	}
	if err := yaml.Unmarshal(defaultCatalog, &cfg); err != nil {
		return RawCatalog{}, fmt.Errorf("embedded catalog: %w", err)
	}
	return cfg, nil
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(b []byte) (RawCatalog, error) {
	var cfg RawCatalog
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawCatalog{}, err
	}
	return cfg, nil
}

// readYAML loads a YAML file into out. Missing files report found=false, no error.
func readYAML(path string, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// mergeOffense overlays b on a where b is non-zero/non-nil.
// Slices (formations, restrictions) are replaced wholesale when provided.
func mergeOffense(a, b OffenseConfig) OffenseConfig {
	out := a

	if b.Family != "" {
		out.Family = b.Family
	}

	// ranges
	switch {
	case out.Ranges == nil && b.Ranges != nil:
		c := *b.Ranges
		out.Ranges = &c
	case out.Ranges != nil && b.Ranges != nil:
		c := *out.Ranges
		c.TraditionalRun = mergeRange(c.TraditionalRun, b.Ranges.TraditionalRun)
		c.OptionRun = mergeRange(c.OptionRun, b.Ranges.OptionRun)
		c.RPO = mergeRange(c.RPO, b.Ranges.RPO)
		c.Pass = mergeRange(c.Pass, b.Ranges.Pass)
		out.Ranges = &c
	}

	if len(b.Formations) > 0 {
		out.Formations = append([]FormationConfig(nil), b.Formations...)
	}
	if b.NoTraditionalRun != nil {
		out.NoTraditionalRun = append([]int(nil), b.NoTraditionalRun...)
	}
	if b.Fit != nil {
		c := *b.Fit
		out.Fit = &c
	}
	return out
}

func mergeRange(a, b *RangeConfig) *RangeConfig {
	if b == nil {
		return a
	}
	if a == nil {
		c := *b
		return &c
	}
	c := *a
	if b.Min != nil {
		c.Min = b.Min
	}
	if b.Max != nil {
		c.Max = b.Max
	}
	return &c
}
