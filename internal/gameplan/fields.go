// fields.go
package gameplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Section groups fields that share a default automation toggle.
type Section string

const (
	SectionIdentity     Section = "identity"
	SectionOffense      Section = "offense"
	SectionDefense      Section = "defense"
	SectionSpecialTeams Section = "special_teams"
	SectionToggles      Section = "toggles"
)

// ErrSectionAutomated is returned when a patch edits a section whose default toggle is on.
var ErrSectionAutomated = errors.New("section is set to default automation")

// field binds one flat record key to exactly one of num/str/flag.
type field struct {
	key     string
	section Section
	num     func(*Gameplan) *int
	str     func(*Gameplan) *string
	flag    func(*Gameplan) *bool
}

var (
	fields     = buildFields()
	fieldIndex = indexFields(fields)
)

func buildFields() []field {
	var fs []field
	num := func(key string, s Section, f func(*Gameplan) *int) {
		fs = append(fs, field{key: key, section: s, num: f})
	}
	str := func(key string, s Section, f func(*Gameplan) *string) {
		fs = append(fs, field{key: key, section: s, str: f})
	}
	flag := func(key string, s Section, f func(*Gameplan) *bool) {
		fs = append(fs, field{key: key, section: s, flag: f})
	}

	num("ID", SectionIdentity, func(g *Gameplan) *int { return &g.ID })
	num("TeamID", SectionIdentity, func(g *Gameplan) *int { return &g.TeamID })
	str("OffensiveScheme", SectionOffense, func(g *Gameplan) *string { return &g.OffensiveScheme })
	str("DefensiveScheme", SectionDefense, func(g *Gameplan) *string { return &g.DefensiveScheme })

	for i := 0; i < FormationSlots; i++ {
		n := strconv.Itoa(i + 1)
		num("OffForm"+n+"TraditionalRun", SectionOffense, func(g *Gameplan) *int { return &g.OffFormations[i].TraditionalRun })
		num("OffForm"+n+"OptionRun", SectionOffense, func(g *Gameplan) *int { return &g.OffFormations[i].OptionRun })
		num("OffForm"+n+"RPO", SectionOffense, func(g *Gameplan) *int { return &g.OffFormations[i].RPO })
		num("OffForm"+n+"Pass", SectionOffense, func(g *Gameplan) *int { return &g.OffFormations[i].Pass })
	}

	num("RunOutsideLeft", SectionOffense, func(g *Gameplan) *int { return &g.Run.OutsideLeft })
	num("RunOutsideRight", SectionOffense, func(g *Gameplan) *int { return &g.Run.OutsideRight })
	num("RunInsideLeft", SectionOffense, func(g *Gameplan) *int { return &g.Run.InsideLeft })
	num("RunInsideRight", SectionOffense, func(g *Gameplan) *int { return &g.Run.InsideRight })
	num("RunPowerLeft", SectionOffense, func(g *Gameplan) *int { return &g.Run.PowerLeft })
	num("RunPowerRight", SectionOffense, func(g *Gameplan) *int { return &g.Run.PowerRight })
	num("RunDrawLeft", SectionOffense, func(g *Gameplan) *int { return &g.Run.DrawLeft })
	num("RunDrawRight", SectionOffense, func(g *Gameplan) *int { return &g.Run.DrawRight })

	num("ReadOptionLeft", SectionOffense, func(g *Gameplan) *int { return &g.Option.ReadLeft })
	num("ReadOptionRight", SectionOffense, func(g *Gameplan) *int { return &g.Option.ReadRight })
	num("SpeedOptionLeft", SectionOffense, func(g *Gameplan) *int { return &g.Option.SpeedLeft })
	num("SpeedOptionRight", SectionOffense, func(g *Gameplan) *int { return &g.Option.SpeedRight })
	num("InvertedOptionLeft", SectionOffense, func(g *Gameplan) *int { return &g.Option.InvertedLeft })
	num("InvertedOptionRight", SectionOffense, func(g *Gameplan) *int { return &g.Option.InvertedRight })
	num("TripleOptionLeft", SectionOffense, func(g *Gameplan) *int { return &g.Option.TripleLeft })
	num("TripleOptionRight", SectionOffense, func(g *Gameplan) *int { return &g.Option.TripleRight })

	num("PassQuick", SectionOffense, func(g *Gameplan) *int { return &g.Pass.Quick })
	num("PassShort", SectionOffense, func(g *Gameplan) *int { return &g.Pass.Short })
	num("PassLong", SectionOffense, func(g *Gameplan) *int { return &g.Pass.Long })
	num("PassDeep", SectionOffense, func(g *Gameplan) *int { return &g.Pass.Deep })
	num("PassScreen", SectionOffense, func(g *Gameplan) *int { return &g.Pass.Screen })
	num("PassPAShort", SectionOffense, func(g *Gameplan) *int { return &g.Pass.PAShort })
	num("PassPALong", SectionOffense, func(g *Gameplan) *int { return &g.Pass.PALong })
	num("PassPADeep", SectionOffense, func(g *Gameplan) *int { return &g.Pass.PADeep })

	num("ChoiceOutside", SectionOffense, func(g *Gameplan) *int { return &g.RPO.ChoiceOutside })
	num("ChoiceInside", SectionOffense, func(g *Gameplan) *int { return &g.RPO.ChoiceInside })
	num("ChoicePower", SectionOffense, func(g *Gameplan) *int { return &g.RPO.ChoicePower })
	num("PeekOutside", SectionOffense, func(g *Gameplan) *int { return &g.RPO.PeekOutside })
	num("PeekInside", SectionOffense, func(g *Gameplan) *int { return &g.RPO.PeekInside })
	num("PeekPower", SectionOffense, func(g *Gameplan) *int { return &g.RPO.PeekPower })

	target := func(slot string, t func(*Gameplan) *Target) {
		num("Targeting"+slot, SectionOffense, func(g *Gameplan) *int { return &t(g).Weight })
		str("TargetDepth"+slot, SectionOffense, func(g *Gameplan) *string { return (*string)(&t(g).Depth) })
	}
	for i := range 5 {
		target("WR"+strconv.Itoa(i+1), func(g *Gameplan) *Target { return &g.Targeting.WR[i] })
	}
	for i := range 3 {
		target("TE"+strconv.Itoa(i+1), func(g *Gameplan) *Target { return &g.Targeting.TE[i] })
	}
	for i := range 2 {
		target("RB"+strconv.Itoa(i+1), func(g *Gameplan) *Target { return &g.Targeting.RB[i] })
	}
	target("FB1", func(g *Gameplan) *Target { return &g.Targeting.FB })

	num("RunnerDistributionQB", SectionOffense, func(g *Gameplan) *int { return &g.Runners.QB })
	for i := range 3 {
		num("RunnerDistributionRB"+strconv.Itoa(i+1), SectionOffense, func(g *Gameplan) *int { return &g.Runners.RB[i] })
	}
	num("RunnerDistributionFB1", SectionOffense, func(g *Gameplan) *int { return &g.Runners.FB })
	num("RunnerDistributionWR", SectionOffense, func(g *Gameplan) *int { return &g.Runners.WR })
	num("RunnerDistributionWRPosition", SectionOffense, func(g *Gameplan) *int { return &g.Runners.WRSlot })

	for i := 0; i < FormationSlots; i++ {
		n := strconv.Itoa(i + 1)
		str("DefFormation"+n, SectionDefense, func(g *Gameplan) *string { return &g.DefFormations[i].Name })
		num("DefFormation"+n+"RunToPass", SectionDefense, func(g *Gameplan) *int { return &g.DefFormations[i].RunToPass })
		num("DefFormation"+n+"BlitzWeight", SectionDefense, func(g *Gameplan) *int { return &g.DefFormations[i].BlitzWeight })
		str("DefFormation"+n+"BlitzAggression", SectionDefense, func(g *Gameplan) *string { return (*string)(&g.DefFormations[i].Aggression) })
	}

	flag("BlitzSafeties", SectionDefense, func(g *Gameplan) *bool { return &g.Defense.BlitzSafeties })
	flag("BlitzCorners", SectionDefense, func(g *Gameplan) *bool { return &g.Defense.BlitzCorners })
	str("LinebackerCoverage", SectionDefense, func(g *Gameplan) *string { return (*string)(&g.Defense.LinebackerCoverage) })
	str("CornersCoverage", SectionDefense, func(g *Gameplan) *string { return (*string)(&g.Defense.CornersCoverage) })
	str("SafetiesCoverage", SectionDefense, func(g *Gameplan) *string { return (*string)(&g.Defense.SafetiesCoverage) })
	num("DoubleTeam", SectionDefense, func(g *Gameplan) *int { return &g.Defense.DoubleTeam })

	str("FocusPlays", SectionDefense, func(g *Gameplan) *string { return &g.Focus.Plays })
	num("PitchFocus", SectionDefense, func(g *Gameplan) *int { return &g.Focus.PitchFocus })
	num("DiveFocus", SectionDefense, func(g *Gameplan) *int { return &g.Focus.DiveFocus })

	num("MaximumFGDistance", SectionSpecialTeams, func(g *Gameplan) *int { return &g.SpecialTeams.MaximumFGDistance })
	num("GoFor4AndShort", SectionSpecialTeams, func(g *Gameplan) *int { return &g.SpecialTeams.GoFor4AndShort })
	num("GoFor4AndLong", SectionSpecialTeams, func(g *Gameplan) *int { return &g.SpecialTeams.GoFor4AndLong })

	flag("DefaultOffense", SectionToggles, func(g *Gameplan) *bool { return &g.SpecialTeams.DefaultOffense })
	flag("DefaultDefense", SectionToggles, func(g *Gameplan) *bool { return &g.SpecialTeams.DefaultDefense })
	flag("DefaultSpecialTeams", SectionToggles, func(g *Gameplan) *bool { return &g.SpecialTeams.DefaultSpecialTeams })

	return fs
}

func indexFields(fs []field) map[string]int {
	idx := make(map[string]int, len(fs))
	for i, f := range fs {
		idx[f.key] = i
	}
	return idx
}

// Keys returns every flat record key in table order.
func Keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// SectionOf reports the section a record key belongs to.
func SectionOf(key string) (Section, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return "", false
	}
	return fields[i].section, true
}

// Automated reports whether the section's default toggle is on.
func (g *Gameplan) Automated(s Section) bool {
	switch s {
	case SectionOffense:
		return g.SpecialTeams.DefaultOffense
	case SectionDefense:
		return g.SpecialTeams.DefaultDefense
	case SectionSpecialTeams:
		return g.SpecialTeams.DefaultSpecialTeams
	}
	return false
}

// Record returns the flat wire record.
func (g *Gameplan) Record() map[string]any {
	rec := make(map[string]any, len(fields))
	for _, f := range fields {
		switch {
		case f.num != nil:
			rec[f.key] = *f.num(g)
		case f.str != nil:
			rec[f.key] = *f.str(g)
		case f.flag != nil:
			rec[f.key] = *f.flag(g)
		}
	}
	return rec
}

func (g Gameplan) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Record())
}

func (g *Gameplan) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Gameplan
	if err := out.set(raw, nil); err != nil {
		return err
	}
	*g = out
	return nil
}

// FromRecord decodes a generic flat record, e.g. one converted from a protobuf Struct.
func FromRecord(rec map[string]any) (*Gameplan, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var g Gameplan
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &g, nil
}

// set writes every known key accepted by keep (nil keeps all). Unknown keys are ignored.
func (g *Gameplan) set(raw map[string]json.RawMessage, keep func(field) bool) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		i, ok := fieldIndex[k]
		if !ok {
			continue
		}
		f := fields[i]
		if keep != nil && !keep(f) {
			continue
		}
		var err error
		switch {
		case f.num != nil:
			err = json.Unmarshal(raw[k], f.num(g))
		case f.str != nil:
			err = json.Unmarshal(raw[k], f.str(g))
		case f.flag != nil:
			err = json.Unmarshal(raw[k], f.flag(g))
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
	}
	return nil
}

// ApplyPatch applies a partial flat record. Toggle keys in the patch take effect first;
// editing a field of an automated section fails and leaves g untouched. Identity keys are
// ignored. It returns the sections that were edited.
func (g *Gameplan) ApplyPatch(raw map[string]json.RawMessage) ([]Section, error) {
	next := *g
	if err := next.set(raw, func(f field) bool { return f.section == SectionToggles }); err != nil {
		return nil, err
	}

	seen := make(map[Section]bool)
	var touched []Section
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s, ok := SectionOf(k)
		if !ok || s == SectionIdentity {
			continue
		}
		if next.Automated(s) {
			return nil, fmt.Errorf("%s: %w", k, ErrSectionAutomated)
		}
		if !seen[s] {
			seen[s] = true
			touched = append(touched, s)
		}
	}

	if err := next.set(raw, func(f field) bool {
		return f.section != SectionToggles && f.section != SectionIdentity
	}); err != nil {
		return nil, err
	}
	*g = next
	return touched, nil
}
