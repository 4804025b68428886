package validation

import (
	"fmt"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/scheme"
)

const (
	imbalanceSpread  = 30
	heavyPlayShare   = 80
	minFGDistance    = 15
	maxFGDistance    = 85
	maxGoForItOnFour = 85
)

// Result is everything the editor needs after a change.
type Result struct {
	IsValid          bool                         `json:"isValid"`
	CanSave          bool                         `json:"canSave"`
	Errors           []Error                      `json:"errors"`
	Warnings         []Error                      `json:"warnings"`
	PlayTypeTotals   distribution.PlayTypeTotals  `json:"playTypeTotals"`
	FormationWeights [gameplan.FormationSlots]int `json:"formationWeights"`
	Totals           *distribution.Bundle         `json:"totals,omitempty"`
}

// Validator combines scheme lookup, distribution totals and the rule checks.
type Validator struct {
	schemes scheme.Lookup
	calc    *distribution.Calculator
}

// New returns a Validator. calc may be nil to compute totals uncached.
func New(schemes scheme.Lookup, calc *distribution.Calculator) *Validator {
	return &Validator{schemes: schemes, calc: calc}
}

// Validate checks g and layers advisory warnings on top of the blocking errors.
// canModify is the caller's permission to save; it only affects CanSave.
func (v *Validator) Validate(g *gameplan.Gameplan, canModify bool) Result {
	if g == nil {
		return Result{
			Errors:   []Error{blocking("Gameplan", "No gameplan loaded")},
			Warnings: []Error{},
		}
	}

	off, found := v.schemes.Offense(g.OffensiveScheme)
	if !found {
		return Result{
			Errors:   Errors(g, off, false, distribution.Bundle{}),
			Warnings: []Error{},
		}
	}

	b := v.calc.Compute(g)
	errs := Errors(g, off, true, b)
	if errs == nil {
		errs = []Error{}
	}
	r := Result{
		IsValid:          len(errs) == 0,
		Errors:           errs,
		Warnings:         v.Warnings(g, b),
		PlayTypeTotals:   b.PlayTypes,
		FormationWeights: b.FormationWeights,
		Totals:           &b,
	}
	r.CanSave = r.IsValid && canModify
	return r
}

// Warnings returns the advisory findings for g. They never block saving.
func (v *Validator) Warnings(g *gameplan.Gameplan, b distribution.Bundle) []Error {
	warns := []Error{}

	if n := len(gameplan.ParseFocusPlays(g.Focus.Plays)); n > gameplan.MaxFocusPlays {
		warns = append(warns, advisory("FocusPlays", fmt.Sprintf(
			"Only %d focus plays may be selected; %d are selected.", gameplan.MaxFocusPlays, n)))
	}

	if unbalanced(b.FormationWeights) {
		warns = append(warns, advisory("FormationBalance",
			"Formation weights are heavily unbalanced. Consider spreading weight more evenly across formations."))
	}

	if b.PlayTypeTotal == distributionTarget {
		if b.PlayTypes.Pass > heavyPlayShare {
			warns = append(warns, advisory("PlayTypeBalance", fmt.Sprintf(
				"This gameplan is very pass-heavy (%d%% pass).", b.PlayTypes.Pass)))
		}
		if b.PlayTypes.Run() > heavyPlayShare {
			warns = append(warns, advisory("PlayTypeBalance", fmt.Sprintf(
				"This gameplan is very run-heavy (%d%% run).", b.PlayTypes.Run())))
		}
	}

	if b.RunnerTotal == 0 {
		warns = append(warns, advisory("RunnerDistribution",
			"No runner weights are set. Ball carriers will be chosen automatically."))
	}
	if b.TargetingTotal == 0 {
		warns = append(warns, advisory("TargetingDistribution",
			"No targeting weights are set. Receivers will be chosen automatically."))
	}

	if d := g.SpecialTeams.MaximumFGDistance; d < minFGDistance || d > maxFGDistance {
		warns = append(warns, advisory("MaximumFGDistance", fmt.Sprintf(
			"Maximum field goal distance %d is outside the usual range of %d to %d yards.", d, minFGDistance, maxFGDistance)))
	}

	st := g.SpecialTeams
	if st.GoFor4AndShort < 0 || st.GoFor4AndShort > maxGoForItOnFour || st.GoFor4AndLong < 0 || st.GoFor4AndLong > maxGoForItOnFour {
		warns = append(warns, advisory("GoForItOnFourth", fmt.Sprintf(
			"Fourth down go-for-it percentages should be between 0 and %d.", maxGoForItOnFour)))
	}

	empty := 0
	for _, f := range g.DefFormations {
		if f.Name == "" {
			empty++
		}
	}
	if empty > 0 && empty < gameplan.FormationSlots {
		warns = append(warns, advisory("DefensiveFormations", fmt.Sprintf(
			"%d defensive formations have not been selected.", empty)))
	}

	def, ok := v.schemes.Defense(g.DefensiveScheme)
	if !ok {
		warns = append(warns, advisory("DefensiveScheme", fmt.Sprintf(
			"Defensive scheme %q is not recognized.", g.DefensiveScheme)))
	} else {
		for i, f := range g.DefFormations {
			if f.Name != "" && !def.HasFormation(f.Name) {
				warns = append(warns, advisory(fmt.Sprintf("DefFormation%d", i+1), fmt.Sprintf(
					"%s is not part of the %s defensive scheme.", f.Name, def.Name)))
			}
		}
	}

	return warns
}

// unbalanced reports whether any weighted formation is more than imbalanceSpread
// away from the mean of the weighted formations.
func unbalanced(weights [gameplan.FormationSlots]int) bool {
	n, total := 0, 0
	for _, w := range weights {
		if w > 0 {
			n++
			total += w
		}
	}
	if n == 0 {
		return false
	}
	// |w - total/n| > spread, kept in integers
	for _, w := range weights {
		if w == 0 {
			continue
		}
		diff := w*n - total
		if diff < 0 {
			diff = -diff
		}
		if diff > imbalanceSpread*n {
			return true
		}
	}
	return false
}
