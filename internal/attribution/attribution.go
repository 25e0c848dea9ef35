// Package attribution infers per-pilot launch and kill figures from the
// final lifecycle state of a session. The recorded data carries no launch or
// hit events, so outside of explicit launcher links everything here is a
// documented estimate: launches are apportioned across eligible pilots and
// kills are bounded by observed enemy losses.
package attribution

import (
	"fmt"
	"log/slog"
	"sort"

	"acmi_stats/internal/classify"
	"acmi_stats/internal/models"
	"acmi_stats/internal/store"
)

// DefaultHitRate is the assumed single-shot kill probability used when the
// configuration does not override it.
const DefaultHitRate = 0.30

// Config parameterizes the attribution policy.
type Config struct {
	// HitRate is the assumed probability that a fired missile kills,
	// in (0, 1].
	HitRate float64
	// TrustParentLinks attributes munitions with a resolvable launcher
	// reference directly to that aircraft's pilot instead of sending them
	// through coalition-level apportionment.
	TrustParentLinks bool
}

// PilotShare is one pilot's slice of an apportioned munition group.
type PilotShare struct {
	Pilot string
	Count int
}

// Result records one (coalition, family) group's apportionment across its
// eligible pilots. Counts sum exactly to the group's launch count.
type Result struct {
	Coalition string
	Family    string
	Shares    []PilotShare
}

// Totals breaks down what happened to every removed munition, so launches
// the engine could not assign stay visible instead of disappearing into
// other pilots' counts.
type Totals struct {
	Munitions    int // removed munitions examined
	Launches     int // munitions resolved to a munition family
	Direct       int // attributed through a recorded launcher link
	Apportioned  int // attributed by coalition-level apportionment
	Unclassified int // munitions with no family in the table
	NoEligible   int // launches of groups with an empty eligible pilot set
}

// Unattributed returns the session-level count of launches no pilot was
// credited with.
func (t Totals) Unattributed() int {
	return t.Unclassified + t.NoEligible
}

// Outcome is the engine's full output for one session.
type Outcome struct {
	Profiles []*models.PilotProfile // sorted by pilot name
	Results  []Result               // apportionment detail, sorted by (coalition, family)
	Totals   Totals
}

// Engine runs the attribution policy over a frozen store.
type Engine struct {
	classifier *classify.Classifier
	cfg        Config
}

// NewEngine validates the policy configuration and binds it to a classifier.
func NewEngine(classifier *classify.Classifier, cfg Config) (*Engine, error) {
	if classifier == nil {
		return nil, fmt.Errorf("attribution engine requires a classifier")
	}
	if cfg.HitRate <= 0 || cfg.HitRate > 1 {
		return nil, fmt.Errorf("hit rate %v out of range (0, 1]", cfg.HitRate)
	}
	return &Engine{classifier: classifier, cfg: cfg}, nil
}

// Run derives pilot profiles, attributes launches, and estimates kills.
// Sparse data never fails a run: records without pilots are skipped and
// munitions that cannot be attributed are tallied in Totals.
func (e *Engine) Run(s *store.Store) *Outcome {
	aircraft := s.ByKind(models.KindAircraft)

	profiles := collectPilots(aircraft)
	results, totals := e.attributeLaunches(s, profiles)
	e.estimateKills(aircraft, profiles)

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &Outcome{
		Profiles: make([]*models.PilotProfile, 0, len(names)),
		Results:  results,
		Totals:   totals,
	}
	for _, name := range names {
		out.Profiles = append(out.Profiles, profiles[name])
	}
	return out
}

// collectPilots builds one profile per pilot name from the session's
// aircraft. Identity fields come from the pilot's first-seen aircraft; each
// removed aircraft counts as a death, and any alive aircraft marks the pilot
// as having survived the session.
func collectPilots(aircraft []models.ObjectRecord) map[string]*models.PilotProfile {
	profiles := make(map[string]*models.PilotProfile)
	for _, rec := range aircraft {
		if rec.Pilot == "" {
			slog.Debug("skipping aircraft without pilot", "id", rec.ID, "name", rec.Name)
			continue
		}
		p, ok := profiles[rec.Pilot]
		if !ok {
			p = models.NewPilotProfile(rec)
			profiles[rec.Pilot] = p
		}
		if rec.Alive {
			p.Survived = true
		} else {
			p.Deaths++
		}
	}
	return profiles
}

func (e *Engine) attributeLaunches(s *store.Store, profiles map[string]*models.PilotProfile) ([]Result, Totals) {
	var totals Totals

	pilotByAircraft := make(map[string]string)
	for _, rec := range s.ByKind(models.KindAircraft) {
		if rec.Pilot != "" {
			pilotByAircraft[rec.ID] = rec.Pilot
		}
	}

	// A munition still alive at session end never completed a launch cycle,
	// so only removed munitions count.
	type groupKey struct{ coalition, family string }
	groups := make(map[groupKey]int)

	for _, m := range s.ByKind(models.KindMunition) {
		if m.Alive {
			continue
		}
		totals.Munitions++

		family := e.classifier.FamilyOf(m.Name)
		if family == classify.Unclassified {
			totals.Unclassified++
			slog.Debug("munition excluded from attribution", "id", m.ID, "name", m.Name)
			continue
		}
		totals.Launches++

		if e.cfg.TrustParentLinks && m.ParentID != "" {
			if pilot, ok := pilotByAircraft[m.ParentID]; ok {
				p := profiles[pilot]
				p.MissilesFired++
				p.AddMunitionType(family)
				totals.Direct++
				continue
			}
			slog.Debug("launcher reference unresolved", "munition", m.ID, "parent", m.ParentID)
		}
		groups[groupKey{m.Coalition, family}]++
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].coalition != keys[j].coalition {
			return keys[i].coalition < keys[j].coalition
		}
		return keys[i].family < keys[j].family
	})

	var results []Result
	for _, k := range keys {
		n := groups[k]
		eligible := e.eligiblePilots(profiles, k.coalition, k.family)
		if len(eligible) == 0 {
			totals.NoEligible += n
			slog.Debug("no eligible pilots for munition group",
				"coalition", k.coalition, "family", k.family, "launches", n)
			continue
		}

		shares := Apportion(n, eligible)
		for _, sh := range shares {
			if sh.Count == 0 {
				continue
			}
			p := profiles[sh.Pilot]
			p.MissilesFired += sh.Count
			p.AddMunitionType(k.family)
		}
		results = append(results, Result{Coalition: k.coalition, Family: k.family, Shares: shares})
		totals.Apportioned += n
	}
	return results, totals
}

// eligiblePilots returns, in lexicographic order, the pilots of a coalition
// whose aircraft is compatible with the munition family.
func (e *Engine) eligiblePilots(profiles map[string]*models.PilotProfile, coalition, family string) []string {
	var out []string
	for name, p := range profiles {
		if p.Coalition == coalition && e.classifier.Compatible(family, p.Aircraft) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Apportion splits n launches across pilots in the given order: each pilot
// receives n div k, and the first n mod k pilots receive one more. The
// returned counts always sum exactly to n.
func Apportion(n int, pilots []string) []PilotShare {
	shares := make([]PilotShare, len(pilots))
	if len(pilots) == 0 {
		return shares
	}
	base, rem := n/len(pilots), n%len(pilots)
	for i, pilot := range pilots {
		count := base
		if i < rem {
			count++
		}
		shares[i] = PilotShare{Pilot: pilot, Count: count}
	}
	return shares
}

// estimateKills bounds each shooter's kills by two ceilings: what the pilot's
// own volume of fire could plausibly have hit at the assumed hit rate, and
// the pilot's share of the enemy's observed total losses.
func (e *Engine) estimateKills(aircraft []models.ObjectRecord, profiles map[string]*models.PilotProfile) {
	lossesByCoalition := make(map[string]int)
	totalLosses := 0
	for _, rec := range aircraft {
		if !rec.Alive {
			lossesByCoalition[rec.Coalition]++
			totalLosses++
		}
	}

	firedByCoalition := make(map[string]int)
	for _, p := range profiles {
		if p.MissilesFired > 0 {
			firedByCoalition[p.Coalition] += p.MissilesFired
		}
	}

	for _, p := range profiles {
		if p.MissilesFired == 0 {
			continue
		}
		enemyLosses := totalLosses - lossesByCoalition[p.Coalition]
		if enemyLosses == 0 {
			continue
		}
		share := float64(p.MissilesFired) / float64(firedByCoalition[p.Coalition])
		kills := int(float64(p.MissilesFired) * e.cfg.HitRate)
		if byLosses := int(float64(enemyLosses) * share); byLosses < kills {
			kills = byLosses
		}
		if kills < 0 {
			kills = 0
		}
		p.Kills = kills
	}
}
