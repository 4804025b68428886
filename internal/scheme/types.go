// types.go
package scheme

import "github.com/xtding233/gameplan-backend/internal/gameplan"

// RawCatalog is the catalog as loaded from YAML.
type RawCatalog struct {
	Version  string                  `yaml:"version"`
	Families map[string]FamilyConfig `yaml:"families"`
	Offense  []OffenseConfig         `yaml:"offense"`
	Defense  []DefenseConfig         `yaml:"defense"`
	Notes    string                  `yaml:"notes,omitempty"`
}

type FamilyConfig struct {
	DeepCap  *int           `yaml:"deep_cap"`
	PassCaps PassCapsConfig `yaml:"pass_caps"`
}

type PassCapsConfig struct {
	Quick   *int `yaml:"quick"`
	Short   *int `yaml:"short"`
	Long    *int `yaml:"long"`
	Deep    *int `yaml:"deep"`
	Screen  *int `yaml:"screen"`
	PAShort *int `yaml:"pa_short"`
	PALong  *int `yaml:"pa_long"`
	PADeep  *int `yaml:"pa_deep"`
}

// OffenseConfig is one offensive scheme entry. Override files use the same shape;
// fields left out keep the base catalog's values.
type OffenseConfig struct {
	Name             string            `yaml:"name"`
	Family           string            `yaml:"family"`
	Ranges           *RangesConfig     `yaml:"ranges,omitempty"`
	Formations       []FormationConfig `yaml:"formations,omitempty"`
	NoTraditionalRun []int             `yaml:"no_traditional_run,omitempty"` // 1-based formation slots
	Fit              *FitConfig        `yaml:"fit,omitempty"`
}

type RangesConfig struct {
	TraditionalRun *RangeConfig `yaml:"traditional_run"`
	OptionRun      *RangeConfig `yaml:"option_run"`
	RPO            *RangeConfig `yaml:"rpo"`
	Pass           *RangeConfig `yaml:"pass"`
}

type RangeConfig struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type FormationConfig struct {
	Name      string   `yaml:"name"`
	Positions []string `yaml:"positions"`
}

// FitConfig is display-only.
type FitConfig struct {
	Strengths  []string `yaml:"strengths,omitempty"`
	Weaknesses []string `yaml:"weaknesses,omitempty"`
}

type DefenseConfig struct {
	Name       string            `yaml:"name"`
	Formations []FormationConfig `yaml:"formations"`
}

// Range is an inclusive [Min, Max] bound.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Ranges holds the legal play-type totals for a scheme.
type Ranges struct {
	TraditionalRun Range `json:"traditionalRun"`
	OptionRun      Range `json:"optionRun"`
	RPO            Range `json:"rpo"`
	Pass           Range `json:"pass"`
}

// For returns the range of one play type.
func (r Ranges) For(p gameplan.PlayType) Range {
	switch p {
	case gameplan.TraditionalRun:
		return r.TraditionalRun
	case gameplan.OptionRun:
		return r.OptionRun
	case gameplan.RPO:
		return r.RPO
	case gameplan.Pass:
		return r.Pass
	}
	return Range{}
}

// PassCaps bounds each pass distribution category.
type PassCaps struct {
	Quick   int `json:"quick"`
	Short   int `json:"short"`
	Long    int `json:"long"`
	Deep    int `json:"deep"`
	Screen  int `json:"screen"`
	PAShort int `json:"paShort"`
	PALong  int `json:"paLong"`
	PADeep  int `json:"paDeep"`
}

// Allows reports whether every category of d is within its cap.
func (c PassCaps) Allows(d gameplan.PassDistribution) bool {
	return d.Quick <= c.Quick &&
		d.Short <= c.Short &&
		d.Long <= c.Long &&
		d.Deep <= c.Deep &&
		d.Screen <= c.Screen &&
		d.PAShort <= c.PAShort &&
		d.PALong <= c.PALong &&
		d.PADeep <= c.PADeep
}

// Family groups schemes that share pass limits.
type Family struct {
	Name     string   `json:"name"`
	PassCaps PassCaps `json:"passCaps"`
	DeepCap  int      `json:"deepCap"` // Deep + PADeep
}

type Formation struct {
	Name      string   `json:"name"`
	Positions []string `json:"positions"`
}

type Fit struct {
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// Offense is a resolved offensive scheme.
type Offense struct {
	Name             string      `json:"name"`
	Family           Family      `json:"family"`
	Ranges           Ranges      `json:"ranges"`
	Formations       []Formation `json:"formations"`
	NoTraditionalRun []int       `json:"noTraditionalRun,omitempty"`
	Fit              Fit         `json:"fit"`
}

// Defense is a resolved defensive scheme.
type Defense struct {
	Name       string      `json:"name"`
	Formations []Formation `json:"formations"`
}

// HasFormation reports whether name is one of the scheme's formations.
func (d Defense) HasFormation(name string) bool {
	for _, f := range d.Formations {
		if f.Name == name {
			return true
		}
	}
	return false
}
