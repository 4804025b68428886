package validation

import (
	"fmt"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/scheme"
)

const (
	minActiveFormations = 2
	maxFormationWeight  = 50
	distributionTarget  = 100
	maxRunPlay          = 80
	maxDrawPlay         = 15
	maxOptionPlay       = 80
)

// Errors runs every blocking check in order and returns all failures.
// An unknown offensive scheme short-circuits with a single error.
func Errors(g *gameplan.Gameplan, off scheme.Offense, found bool, b distribution.Bundle) []Error {
	if !found {
		return []Error{blocking("OffensiveScheme", "Invalid offensive scheme selected")}
	}
	var errs []Error

	if b.ActiveFormations < minActiveFormations {
		errs = append(errs, blocking("OffensiveFormations", fmt.Sprintf(
			"You're currently weighted to use %d formations when the minimum is %d. Please add weight to another formation.",
			b.ActiveFormations, minActiveFormations)))
	}

	for i, w := range b.FormationWeights {
		if w > maxFormationWeight {
			errs = append(errs, blocking(fmt.Sprintf("OffForm%d", i+1), fmt.Sprintf(
				"Formation %d has a weight greater than %d (%d). Please reduce the weight of this formation.",
				i+1, maxFormationWeight, w)))
		}
	}

	if b.TotalFormationWeight != distributionTarget {
		errs = append(errs, blocking("TotalFormationWeight", fmt.Sprintf(
			"The total formation weight is %d. Total weight must equal %d.",
			b.TotalFormationWeight, distributionTarget)))
	}

	for _, p := range gameplan.PlayTypes {
		total, r := b.PlayTypes.For(p), off.Ranges.For(p)
		if !r.Contains(total) {
			errs = append(errs, blocking(p.Key(), fmt.Sprintf(
				"%s total is %d, but the %s scheme requires between %d and %d.",
				p, total, off.Name, r.Min, r.Max)))
		}
	}

	if b.PlayTypeTotal != distributionTarget {
		errs = append(errs, blocking("PlayTypeTotal", fmt.Sprintf(
			"Play type totals must sum to %d. Current total: %d.", distributionTarget, b.PlayTypeTotal)))
	}

	if !runDistributionWithinLimits(g) {
		errs = append(errs, blocking("RunDistribution", fmt.Sprintf(
			"Run play distribution is invalid. Run plays may not exceed %d, draw plays may not exceed %d and option plays may not exceed %d.",
			maxRunPlay, maxDrawPlay, maxOptionPlay)))
	}

	if !off.Family.PassCaps.Allows(g.Pass) {
		errs = append(errs, blocking("PassDistribution", fmt.Sprintf(
			"Pass play distribution is invalid for the %s scheme. One or more pass play types exceed the scheme limit.",
			off.Name)))
	}

	for _, slot := range off.NoTraditionalRun {
		if slot < 1 || slot > gameplan.FormationSlots {
			continue
		}
		if g.OffFormations[slot-1].TraditionalRun > 0 {
			errs = append(errs, blocking(fmt.Sprintf("OffForm%dTraditionalRun", slot), fmt.Sprintf(
				"Formation %d (%s) in the %s scheme cannot be weighted towards traditional runs.",
				slot, formationName(off, slot), off.Name)))
		}
	}

	if b.RunTotal != distributionTarget {
		errs = append(errs, blocking("RunDistributionTotal", fmt.Sprintf(
			"Run play distribution must total %d. Current total: %d.", distributionTarget, b.RunTotal)))
	}

	if b.PassTotal != distributionTarget {
		errs = append(errs, blocking("PassDistributionTotal", fmt.Sprintf(
			"Pass play distribution must total %d. Current total: %d.", distributionTarget, b.PassTotal)))
	}

	if deep := g.Pass.DeepTotal(); deep > off.Family.DeepCap {
		errs = append(errs, blocking("DeepPassTotal", fmt.Sprintf(
			"Deep and play-action deep passes may not exceed %d for the %s scheme. Current total: %d.",
			off.Family.DeepCap, off.Name, deep)))
	}

	if b.PlayTypes.OptionRun > 0 && b.OptionTotal != distributionTarget {
		errs = append(errs, blocking("OptionDistribution", fmt.Sprintf(
			"Option play distribution must total %d when option runs are weighted. Current total: %d.",
			distributionTarget, b.OptionTotal)))
	}

	if b.PlayTypes.RPO > 0 && b.RPOTotal != distributionTarget {
		errs = append(errs, blocking("RPODistribution", fmt.Sprintf(
			"RPO distribution must total %d when RPO plays are weighted. Current total: %d.",
			distributionTarget, b.RPOTotal)))
	}

	for i, f := range g.DefFormations {
		if f.Name == "" {
			errs = append(errs, blocking(fmt.Sprintf("DefFormation%d", i+1), fmt.Sprintf(
				"Defensive formation %d has not been selected.", i+1)))
		}
	}

	return errs
}

func runDistributionWithinLimits(g *gameplan.Gameplan) bool {
	for _, v := range g.Run.Normal() {
		if v > maxRunPlay {
			return false
		}
	}
	for _, v := range g.Run.Draws() {
		if v > maxDrawPlay {
			return false
		}
	}
	for _, v := range g.Option.Values() {
		if v > maxOptionPlay {
			return false
		}
	}
	return true
}

func formationName(off scheme.Offense, slot int) string {
	if slot-1 < len(off.Formations) {
		return off.Formations[slot-1].Name
	}
	return fmt.Sprintf("slot %d", slot)
}
