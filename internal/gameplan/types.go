// types.go
package gameplan

// Number of formation slots on each side of the ball.
const FormationSlots = 5

// PlayType is one of the four offensive play categories weighted per formation.
type PlayType int

const (
	TraditionalRun PlayType = iota
	OptionRun
	RPO
	Pass
)

// PlayTypes lists the categories in validation order.
var PlayTypes = [...]PlayType{TraditionalRun, OptionRun, RPO, Pass}

func (p PlayType) String() string {
	switch p {
	case TraditionalRun:
		return "Traditional Run"
	case OptionRun:
		return "Option Run"
	case RPO:
		return "RPO"
	case Pass:
		return "Pass"
	}
	return "Unknown"
}

// Key is the suffix used for the play type in field names and error tags.
func (p PlayType) Key() string {
	switch p {
	case TraditionalRun:
		return "TraditionalRun"
	case OptionRun:
		return "OptionRun"
	case RPO:
		return "RPO"
	case Pass:
		return "Pass"
	}
	return ""
}

// TargetDepth is a receiver's preferred target depth.
type TargetDepth string

const (
	DepthNone  TargetDepth = "None"
	DepthQuick TargetDepth = "Quick"
	DepthShort TargetDepth = "Short"
	DepthLong  TargetDepth = "Long"
)

// Aggression is how hard a defensive formation commits when it blitzes.
type Aggression string

const (
	Cautious   Aggression = "Cautious"
	Moderate   Aggression = "Moderate"
	Aggressive Aggression = "Aggressive"
)

// Coverage is a unit's coverage assignment.
type Coverage string

const (
	Man  Coverage = "Man"
	Zone Coverage = "Zone"
)

// OffensiveFormation holds one formation slot's play-type sub-weights.
type OffensiveFormation struct {
	TraditionalRun int
	OptionRun      int
	RPO            int
	Pass           int
}

// Weight returns the sub-weight for the given play type.
func (f OffensiveFormation) Weight(p PlayType) int {
	switch p {
	case TraditionalRun:
		return f.TraditionalRun
	case OptionRun:
		return f.OptionRun
	case RPO:
		return f.RPO
	case Pass:
		return f.Pass
	}
	return 0
}

// Total is the formation's overall weight.
func (f OffensiveFormation) Total() int {
	return f.TraditionalRun + f.OptionRun + f.RPO + f.Pass
}

// RunDistribution splits traditional run plays.
type RunDistribution struct {
	OutsideLeft  int
	OutsideRight int
	InsideLeft   int
	InsideRight  int
	PowerLeft    int
	PowerRight   int
	DrawLeft     int
	DrawRight    int
}

// Normal returns the non-draw run fields.
func (r RunDistribution) Normal() []int {
	return []int{r.OutsideLeft, r.OutsideRight, r.InsideLeft, r.InsideRight, r.PowerLeft, r.PowerRight}
}

// Draws returns the draw fields.
func (r RunDistribution) Draws() []int {
	return []int{r.DrawLeft, r.DrawRight}
}

func (r RunDistribution) Total() int {
	return sum(r.Normal()) + sum(r.Draws())
}

// OptionDistribution splits option run plays.
type OptionDistribution struct {
	ReadLeft      int
	ReadRight     int
	SpeedLeft     int
	SpeedRight    int
	InvertedLeft  int
	InvertedRight int
	TripleLeft    int
	TripleRight   int
}

func (o OptionDistribution) Values() []int {
	return []int{o.ReadLeft, o.ReadRight, o.SpeedLeft, o.SpeedRight, o.InvertedLeft, o.InvertedRight, o.TripleLeft, o.TripleRight}
}

func (o OptionDistribution) Total() int { return sum(o.Values()) }

// PassDistribution splits pass plays. Names follow the persisted record.
type PassDistribution struct {
	Quick   int
	Short   int
	Long    int
	Deep    int
	Screen  int
	PAShort int
	PALong  int
	PADeep  int
}

func (p PassDistribution) Total() int {
	return p.Quick + p.Short + p.Long + p.Deep + p.Screen + p.PAShort + p.PALong + p.PADeep
}

// DeepTotal is Deep plus play-action Deep.
func (p PassDistribution) DeepTotal() int { return p.Deep + p.PADeep }

// RPODistribution splits run-pass option plays.
type RPODistribution struct {
	ChoiceOutside int
	ChoiceInside  int
	ChoicePower   int
	PeekOutside   int
	PeekInside    int
	PeekPower     int
}

func (r RPODistribution) Total() int {
	return r.ChoiceOutside + r.ChoiceInside + r.ChoicePower + r.PeekOutside + r.PeekInside + r.PeekPower
}

// Target is one receiver slot's targeting weight (0-10) and depth preference.
type Target struct {
	Weight int
	Depth  TargetDepth
}

// Targeting holds receiver targeting weights by depth-chart slot.
type Targeting struct {
	WR [5]Target
	TE [3]Target
	RB [2]Target
	FB Target
}

func (t Targeting) Total() int {
	total := t.FB.Weight
	for _, s := range t.WR {
		total += s.Weight
	}
	for _, s := range t.TE {
		total += s.Weight
	}
	for _, s := range t.RB {
		total += s.Weight
	}
	return total
}

// Runners holds ball-carrier weights (0-10). WRSlot picks which WR gets the WR carries.
type Runners struct {
	QB     int
	RB     [3]int
	FB     int
	WR     int
	WRSlot int
}

func (r Runners) Total() int {
	return r.QB + sum(r.RB[:]) + r.FB + r.WR
}

// DefensiveFormation is one defensive formation slot.
type DefensiveFormation struct {
	Name        string
	RunToPass   int
	BlitzWeight int
	Aggression  Aggression
}

// DefensivePlayers holds player-level defensive settings.
type DefensivePlayers struct {
	BlitzSafeties      bool
	BlitzCorners       bool
	LinebackerCoverage Coverage
	CornersCoverage    Coverage
	SafetiesCoverage   Coverage
	DoubleTeam         int
}

// Focus holds the selected focus plays and option-defense knobs.
type Focus struct {
	Plays      string
	PitchFocus int
	DiveFocus  int
}

// SpecialTeams holds kicking and fourth-down settings plus automation toggles.
type SpecialTeams struct {
	MaximumFGDistance   int
	GoFor4AndShort      int
	GoFor4AndLong       int
	DefaultOffense      bool
	DefaultDefense      bool
	DefaultSpecialTeams bool
}

// Gameplan is a team's full offensive, defensive and special teams configuration.
type Gameplan struct {
	ID              int
	TeamID          int
	OffensiveScheme string
	DefensiveScheme string

	OffFormations [FormationSlots]OffensiveFormation
	Run           RunDistribution
	Option        OptionDistribution
	Pass          PassDistribution
	RPO           RPODistribution
	Targeting     Targeting
	Runners       Runners

	DefFormations [FormationSlots]DefensiveFormation
	Defense       DefensivePlayers
	Focus         Focus
	SpecialTeams  SpecialTeams
}

// Clone returns an independent copy. Gameplan holds no references, so a value copy suffices.
func (g *Gameplan) Clone() *Gameplan {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

// Equal reports whether two gameplans hold the same values.
func Equal(a, b *Gameplan) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
