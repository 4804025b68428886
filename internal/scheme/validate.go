package scheme

import (
	"fmt"
	"strings"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
)

// ValidateRaw checks semantic constraints of a RawCatalog.
func ValidateRaw(cfg RawCatalog) error {
	var errs []string

	// families
	for name, fam := range cfg.Families {
		if fam.DeepCap == nil {
			errs = append(errs, fmt.Sprintf("families.%s.deep_cap is required", name))
		} else if !inPercent(*fam.DeepCap) {
			errs = append(errs, fmt.Sprintf("families.%s.deep_cap must be in [0,100]", name))
		}
		caps := map[string]*int{
			"quick": fam.PassCaps.Quick, "short": fam.PassCaps.Short,
			"long": fam.PassCaps.Long, "deep": fam.PassCaps.Deep,
			"screen": fam.PassCaps.Screen, "pa_short": fam.PassCaps.PAShort,
			"pa_long": fam.PassCaps.PALong, "pa_deep": fam.PassCaps.PADeep,
		}
		for _, k := range []string{"quick", "short", "long", "deep", "screen", "pa_short", "pa_long", "pa_deep"} {
			switch v := caps[k]; {
			case v == nil:
				errs = append(errs, fmt.Sprintf("families.%s.pass_caps.%s is required", name, k))
			case !inPercent(*v):
				errs = append(errs, fmt.Sprintf("families.%s.pass_caps.%s must be in [0,100]", name, k))
			}
		}
	}

	// offense
	if len(cfg.Offense) == 0 {
		errs = append(errs, "offense must list at least one scheme")
	}
	seen := make(map[string]bool)
	for i, off := range cfg.Offense {
		at := fmt.Sprintf("offense[%d]", i)
		if strings.TrimSpace(off.Name) == "" {
			errs = append(errs, at+".name is required")
		} else {
			at = fmt.Sprintf("offense[%s]", off.Name)
			if seen[off.Name] {
				errs = append(errs, at+" is defined more than once")
			}
			seen[off.Name] = true
		}
		if _, ok := cfg.Families[off.Family]; !ok {
			errs = append(errs, fmt.Sprintf("%s.family %q is not defined", at, off.Family))
		}
		errs = append(errs, validateRanges(at, off.Ranges)...)
		if len(off.Formations) != gameplan.FormationSlots {
			errs = append(errs, fmt.Sprintf("%s.formations must list exactly %d formations", at, gameplan.FormationSlots))
		}
		for j, f := range off.Formations {
			if strings.TrimSpace(f.Name) == "" {
				errs = append(errs, fmt.Sprintf("%s.formations[%d].name is required", at, j))
			}
		}
		for _, slot := range off.NoTraditionalRun {
			if slot < 1 || slot > gameplan.FormationSlots {
				errs = append(errs, fmt.Sprintf("%s.no_traditional_run slot %d must be in [1,%d]", at, slot, gameplan.FormationSlots))
			}
		}
	}

	// defense
	seen = make(map[string]bool)
	for i, def := range cfg.Defense {
		at := fmt.Sprintf("defense[%d]", i)
		if strings.TrimSpace(def.Name) == "" {
			errs = append(errs, at+".name is required")
		} else {
			at = fmt.Sprintf("defense[%s]", def.Name)
			if seen[def.Name] {
				errs = append(errs, at+" is defined more than once")
			}
			seen[def.Name] = true
		}
		if len(def.Formations) == 0 {
			errs = append(errs, at+".formations must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRanges(at string, r *RangesConfig) []string {
	if r == nil {
		return []string{at + ".ranges is required"}
	}
	var errs []string
	var minSum, maxSum int
	for _, e := range []struct {
		key string
		rc  *RangeConfig
	}{
		{"traditional_run", r.TraditionalRun},
		{"option_run", r.OptionRun},
		{"rpo", r.RPO},
		{"pass", r.Pass},
	} {
		switch {
		case e.rc == nil || e.rc.Min == nil || e.rc.Max == nil:
			errs = append(errs, fmt.Sprintf("%s.ranges.%s needs min and max", at, e.key))
		case !inPercent(*e.rc.Min) || !inPercent(*e.rc.Max) || *e.rc.Min > *e.rc.Max:
			errs = append(errs, fmt.Sprintf("%s.ranges.%s must satisfy 0 <= min <= max <= 100", at, e.key))
		default:
			minSum += *e.rc.Min
			maxSum += *e.rc.Max
		}
	}
	// every play type total must be reachable while the four still sum to 100
	if len(errs) == 0 && (minSum > 100 || maxSum < 100) {
		errs = append(errs, fmt.Sprintf("%s.ranges admit no split summing to 100 (mins %d, maxes %d)", at, minSum, maxSum))
	}
	return errs
}

func inPercent(v int) bool { return v >= 0 && v <= 100 }
