package scheme

// Lookup resolves scheme names. Unknown names report false.
type Lookup interface {
	Offense(name string) (Offense, bool)
	Defense(name string) (Defense, bool)
}

// Catalog is a validated, immutable scheme catalog.
type Catalog struct {
	Version  string
	offense  map[string]Offense
	defense  map[string]Defense
	offOrder []string
	defOrder []string
}

var _ Lookup = (*Catalog)(nil)

// NewCatalog validates raw and resolves family references.
func NewCatalog(raw RawCatalog) (*Catalog, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	c := &Catalog{
		Version: raw.Version,
		offense: make(map[string]Offense, len(raw.Offense)),
		defense: make(map[string]Defense, len(raw.Defense)),
	}
	for _, o := range raw.Offense {
		fam := raw.Families[o.Family]
		off := Offense{
			Name: o.Name,
			Family: Family{
				Name:    o.Family,
				DeepCap: *fam.DeepCap,
				PassCaps: PassCaps{
					Quick:   *fam.PassCaps.Quick,
					Short:   *fam.PassCaps.Short,
					Long:    *fam.PassCaps.Long,
					Deep:    *fam.PassCaps.Deep,
					Screen:  *fam.PassCaps.Screen,
					PAShort: *fam.PassCaps.PAShort,
					PALong:  *fam.PassCaps.PALong,
					PADeep:  *fam.PassCaps.PADeep,
				},
			},
			Ranges: Ranges{
				TraditionalRun: toRange(o.Ranges.TraditionalRun),
				OptionRun:      toRange(o.Ranges.OptionRun),
				RPO:            toRange(o.Ranges.RPO),
				Pass:           toRange(o.Ranges.Pass),
			},
			Formations:       toFormations(o.Formations),
			NoTraditionalRun: append([]int(nil), o.NoTraditionalRun...),
		}
		if o.Fit != nil {
			off.Fit = Fit{Strengths: o.Fit.Strengths, Weaknesses: o.Fit.Weaknesses}
		}
		c.offense[o.Name] = off
		c.offOrder = append(c.offOrder, o.Name)
	}
	for _, d := range raw.Defense {
		c.defense[d.Name] = Defense{Name: d.Name, Formations: toFormations(d.Formations)}
		c.defOrder = append(c.defOrder, d.Name)
	}
	return c, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	raw, err := ParseCatalog(defaultCatalog)
	if err != nil {
		return nil, err
	}
	return NewCatalog(raw)
}

func (c *Catalog) Offense(name string) (Offense, bool) {
	o, ok := c.offense[name]
	return o, ok
}

func (c *Catalog) Defense(name string) (Defense, bool) {
	d, ok := c.defense[name]
	return d, ok
}

// Offenses returns offensive schemes in catalog order.
func (c *Catalog) Offenses() []Offense {
	out := make([]Offense, 0, len(c.offOrder))
	for _, n := range c.offOrder {
		out = append(out, c.offense[n])
	}
	return out
}

// Defenses returns defensive schemes in catalog order.
func (c *Catalog) Defenses() []Defense {
	out := make([]Defense, 0, len(c.defOrder))
	for _, n := range c.defOrder {
		out = append(out, c.defense[n])
	}
	return out
}

func toRange(r *RangeConfig) Range {
	return Range{Min: *r.Min, Max: *r.Max}
}

func toFormations(fs []FormationConfig) []Formation {
	out := make([]Formation, len(fs))
	for i, f := range fs {
		out[i] = Formation{Name: f.Name, Positions: append([]string(nil), f.Positions...)}
	}
	return out
}
