// Package gameplantest builds gameplans that pass every blocking check against the
// embedded scheme catalog.
package gameplantest

import "github.com/xtding233/gameplan-backend/internal/gameplan"

// WestCoast returns a valid West Coast gameplan with no warnings.
// Play-type totals: TR 30, OR 0, RPO 5, Pass 65.
func WestCoast(teamID int) *gameplan.Gameplan {
	g := &gameplan.Gameplan{
		ID:              teamID,
		TeamID:          teamID,
		OffensiveScheme: "West Coast",
		DefensiveScheme: "Old School",
		OffFormations: [gameplan.FormationSlots]gameplan.OffensiveFormation{
			{TraditionalRun: 10, RPO: 5, Pass: 15},
			{TraditionalRun: 10, Pass: 15},
			{TraditionalRun: 5, Pass: 15},
			{TraditionalRun: 5, Pass: 10},
			{Pass: 10},
		},
		Run: gameplan.RunDistribution{
			OutsideLeft: 15, OutsideRight: 15,
			InsideLeft: 15, InsideRight: 15,
			PowerLeft: 15, PowerRight: 15,
			DrawLeft: 5, DrawRight: 5,
		},
		Pass: gameplan.PassDistribution{
			Quick: 20, Short: 20, Long: 15, Deep: 5,
			Screen: 15, PAShort: 10, PALong: 10, PADeep: 5,
		},
		RPO: gameplan.RPODistribution{
			ChoiceOutside: 20, ChoiceInside: 20, ChoicePower: 10,
			PeekOutside: 20, PeekInside: 20, PeekPower: 10,
		},
		Runners: gameplan.Runners{QB: 2, RB: [3]int{6, 2, 0}, WRSlot: 1},
		DefFormations: [gameplan.FormationSlots]gameplan.DefensiveFormation{
			{Name: "4-3 Base", RunToPass: 50, BlitzWeight: 20, Aggression: gameplan.Moderate},
			{Name: "4-3 Under", RunToPass: 60, BlitzWeight: 25, Aggression: gameplan.Moderate},
			{Name: "4-4 Stack", RunToPass: 75, BlitzWeight: 30, Aggression: gameplan.Aggressive},
			{Name: "Nickel", RunToPass: 35, BlitzWeight: 15, Aggression: gameplan.Cautious},
			{Name: "Goal Line", RunToPass: 90, BlitzWeight: 10, Aggression: gameplan.Cautious},
		},
		Defense: gameplan.DefensivePlayers{
			LinebackerCoverage: gameplan.Zone,
			CornersCoverage:    gameplan.Man,
			SafetiesCoverage:   gameplan.Zone,
		},
		Focus: gameplan.Focus{Plays: "Inside Zone,Power", PitchFocus: 50, DiveFocus: 50},
		SpecialTeams: gameplan.SpecialTeams{
			MaximumFGDistance: 50,
			GoFor4AndShort:    30,
			GoFor4AndLong:     10,
		},
	}
	g.Targeting.WR = [5]gameplan.Target{
		{Weight: 5, Depth: gameplan.DepthLong},
		{Weight: 5, Depth: gameplan.DepthShort},
		{Weight: 4, Depth: gameplan.DepthQuick},
		{Weight: 1, Depth: gameplan.DepthNone},
		{Weight: 0, Depth: gameplan.DepthNone},
	}
	g.Targeting.TE[0] = gameplan.Target{Weight: 3, Depth: gameplan.DepthShort}
	g.Targeting.RB[0] = gameplan.Target{Weight: 2, Depth: gameplan.DepthQuick}
	return g
}

// AirRaid returns a valid Air Raid gameplan. The third formation (Empty Gun) carries
// no traditional run weight. Play-type totals: TR 25, OR 0, RPO 5, Pass 70.
func AirRaid(teamID int) *gameplan.Gameplan {
	g := WestCoast(teamID)
	g.OffensiveScheme = "Air Raid"
	g.OffFormations[2] = gameplan.OffensiveFormation{Pass: 20}
	return g
}
