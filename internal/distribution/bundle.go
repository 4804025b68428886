// Package distribution sums gameplan weight fields into the totals that validation
// and the editor display.
package distribution

import "github.com/xtding233/gameplan-backend/internal/gameplan"

// PlayTypeTotals is each play type summed across all formations.
type PlayTypeTotals struct {
	TraditionalRun int `json:"traditionalRun"`
	OptionRun      int `json:"optionRun"`
	RPO            int `json:"rpo"`
	Pass           int `json:"pass"`
}

// For returns the total of one play type.
func (t PlayTypeTotals) For(p gameplan.PlayType) int {
	switch p {
	case gameplan.TraditionalRun:
		return t.TraditionalRun
	case gameplan.OptionRun:
		return t.OptionRun
	case gameplan.RPO:
		return t.RPO
	case gameplan.Pass:
		return t.Pass
	}
	return 0
}

// Run is every run-like play type combined.
func (t PlayTypeTotals) Run() int { return t.TraditionalRun + t.OptionRun + t.RPO }

// Bundle is every aggregate derived from a gameplan. All values are plain integer sums.
type Bundle struct {
	PlayTypes            PlayTypeTotals               `json:"playTypeTotals"`
	FormationWeights     [gameplan.FormationSlots]int `json:"formationWeights"`
	RunTotal             int                          `json:"runDistributionTotal"`
	PassTotal            int                          `json:"passDistributionTotal"`
	OptionTotal          int                          `json:"optionDistributionTotal"`
	RPOTotal             int                          `json:"rpoDistributionTotal"`
	TargetingTotal       int                          `json:"targetingTotal"`
	RunnerTotal          int                          `json:"runnerTotal"`
	TotalFormationWeight int                          `json:"totalFormationWeight"`
	ActiveFormations     int                          `json:"activeFormations"`
	PlayTypeTotal        int                          `json:"playTypeTotal"`
}

// Compute derives the bundle without caching.
func Compute(g *gameplan.Gameplan) Bundle {
	var b Bundle
	for i, f := range g.OffFormations {
		w := f.Total()
		b.FormationWeights[i] = w
		b.TotalFormationWeight += w
		if w > 0 {
			b.ActiveFormations++
		}
		b.PlayTypes.TraditionalRun += f.TraditionalRun
		b.PlayTypes.OptionRun += f.OptionRun
		b.PlayTypes.RPO += f.RPO
		b.PlayTypes.Pass += f.Pass
	}
	b.PlayTypeTotal = b.PlayTypes.Run() + b.PlayTypes.Pass
	b.RunTotal = g.Run.Total()
	b.PassTotal = g.Pass.Total()
	b.OptionTotal = g.Option.Total()
	b.RPOTotal = g.RPO.Total()
	b.TargetingTotal = g.Targeting.Total()
	b.RunnerTotal = g.Runners.Total()
	return b
}
