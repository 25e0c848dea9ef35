// Package classify resolves recorded object types into the categories the
// attribution engine works with: munition families and fighter platform
// sides. Lookups are keyed by exact designator; anything the tables do not
// know falls back to Unclassified rather than a best-effort guess.
package classify

import (
	"fmt"

	"acmi_stats/internal/models"
)

// Unclassified is the family label for munitions the table does not cover.
// Unclassified munitions are excluded from attribution and tallied separately.
const Unclassified = "Unclassified"

// Side groups platforms and munition families that can be paired with each
// other when no direct launch link exists.
type Side int

const (
	SideUnknown Side = iota
	SideWestern
	SideEastern
)

func (s Side) String() string {
	switch s {
	case SideWestern:
		return "western"
	case SideEastern:
		return "eastern"
	default:
		return "unknown"
	}
}

// ParseSide converts a configuration string into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "western":
		return SideWestern, nil
	case "eastern":
		return SideEastern, nil
	default:
		return SideUnknown, fmt.Errorf("unknown side %q (want \"western\" or \"eastern\")", s)
	}
}

// MunitionFamily maps a set of exact weapon designators to one family label.
// Eligibility of launch platforms comes from Side, or from Platforms when a
// family needs an explicit aircraft list instead of side-based gating.
type MunitionFamily struct {
	Label       string
	Side        Side
	Designators []string
	Platforms   []string
}

// PlatformEntry assigns a side to one exact aircraft designator.
type PlatformEntry struct {
	Designator string
	Side       Side
}

// Classification is the classifier's verdict on a single object record.
type Classification struct {
	IsAircraft   bool
	IsMunition   bool
	Family       string // munitions only; Unclassified when unresolved
	PlatformSide Side   // aircraft only
}

// Classifier answers family and platform lookups for one analysis run. It is
// immutable after construction and safe for concurrent readers.
type Classifier struct {
	families        []MunitionFamily
	familyByName    map[string]int
	familyByLabel   map[string]int
	familyPlatforms map[string]map[string]struct{}
	platformSide    map[string]Side
}

// New builds a classifier from a family and platform table, validating that
// the tables are unambiguous: every designator resolves to exactly one family,
// every family has a non-empty label, and every family can gate platforms
// either by side or by an explicit platform list.
func New(families []MunitionFamily, platforms []PlatformEntry) (*Classifier, error) {
	c := &Classifier{
		families:        families,
		familyByName:    make(map[string]int),
		familyByLabel:   make(map[string]int),
		familyPlatforms: make(map[string]map[string]struct{}),
		platformSide:    make(map[string]Side),
	}

	for i, fam := range families {
		if fam.Label == "" {
			return nil, fmt.Errorf("munition family %d has an empty label", i)
		}
		if fam.Label == Unclassified {
			return nil, fmt.Errorf("munition family label %q is reserved", Unclassified)
		}
		if prev, ok := c.familyByLabel[fam.Label]; ok && prev != i {
			return nil, fmt.Errorf("munition family label %q defined twice", fam.Label)
		}
		c.familyByLabel[fam.Label] = i

		if len(fam.Designators) == 0 {
			return nil, fmt.Errorf("munition family %q has no designators", fam.Label)
		}
		for _, d := range fam.Designators {
			if d == "" {
				return nil, fmt.Errorf("munition family %q has an empty designator", fam.Label)
			}
			if prev, ok := c.familyByName[d]; ok {
				return nil, fmt.Errorf("designator %q belongs to both %q and %q",
					d, families[prev].Label, fam.Label)
			}
			c.familyByName[d] = i
		}

		if fam.Side == SideUnknown && len(fam.Platforms) == 0 {
			return nil, fmt.Errorf("munition family %q has neither a side nor a platform list", fam.Label)
		}
		if len(fam.Platforms) > 0 {
			set := make(map[string]struct{}, len(fam.Platforms))
			for _, p := range fam.Platforms {
				set[p] = struct{}{}
			}
			c.familyPlatforms[fam.Label] = set
		}
	}

	for _, p := range platforms {
		if p.Designator == "" {
			return nil, fmt.Errorf("platform entry has an empty designator")
		}
		if p.Side == SideUnknown {
			return nil, fmt.Errorf("platform %q has no side", p.Designator)
		}
		if prev, ok := c.platformSide[p.Designator]; ok && prev != p.Side {
			return nil, fmt.Errorf("platform %q listed as both %s and %s", p.Designator, prev, p.Side)
		}
		c.platformSide[p.Designator] = p.Side
	}

	return c, nil
}

// Default returns a classifier built from the built-in reference tables.
func Default() *Classifier {
	c, err := New(DefaultFamilies(), DefaultPlatforms())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify resolves a single object record. It is deterministic and
// stateless: identical input always yields an identical verdict.
func (c *Classifier) Classify(rec models.ObjectRecord) Classification {
	cl := Classification{
		IsAircraft: rec.Kind == models.KindAircraft,
		IsMunition: rec.Kind == models.KindMunition,
	}
	if cl.IsMunition {
		cl.Family = c.FamilyOf(rec.Name)
	}
	if cl.IsAircraft {
		cl.PlatformSide = c.PlatformSide(rec.Name)
	}
	return cl
}

// FamilyOf resolves a weapon designator to its family label, or Unclassified.
func (c *Classifier) FamilyOf(designator string) string {
	if i, ok := c.familyByName[designator]; ok {
		return c.families[i].Label
	}
	return Unclassified
}

// PlatformSide resolves an aircraft designator to its side, or SideUnknown.
func (c *Classifier) PlatformSide(designator string) Side {
	return c.platformSide[designator]
}

// Compatible reports whether an aircraft of the given designator could have
// launched a munition of the given family. Families with an explicit platform
// list match against it; all others match by side.
func (c *Classifier) Compatible(familyLabel, aircraftType string) bool {
	i, ok := c.familyByLabel[familyLabel]
	if !ok {
		return false
	}
	if set, ok := c.familyPlatforms[familyLabel]; ok {
		_, listed := set[aircraftType]
		return listed
	}
	side := c.platformSide[aircraftType]
	return side != SideUnknown && side == c.families[i].Side
}
