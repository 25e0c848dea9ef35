// Package aggregate rolls per-pilot figures into coalition and mission
// summaries. Strictly arithmetic: no heuristics live here, and running it
// again over the same profiles changes nothing.
package aggregate

import (
	"sort"

	"acmi_stats/internal/models"
)

// CoalitionSummary sums the profiles of one coalition.
type CoalitionSummary struct {
	Coalition     string
	Pilots        int
	Survivors     int
	MissilesFired int
	Kills         int
	Deaths        int
}

// KillDeathRatio returns kills per death, or 0 when the coalition lost
// nothing.
func (c CoalitionSummary) KillDeathRatio() float64 {
	if c.Deaths == 0 {
		return 0
	}
	return float64(c.Kills) / float64(c.Deaths)
}

// HitRate returns kills per missile fired, or 0 when nothing was fired.
func (c CoalitionSummary) HitRate() float64 {
	if c.MissilesFired == 0 {
		return 0
	}
	return float64(c.Kills) / float64(c.MissilesFired)
}

// MissionSummary sums every profile in the session.
type MissionSummary struct {
	Pilots        int
	Survivors     int
	MissilesFired int
	Kills         int
	Deaths        int
}

func (m MissionSummary) Casualties() int {
	return m.Pilots - m.Survivors
}

// OverallHitRate returns estimated kills per missile fired across the whole
// session, or 0 when nothing was fired.
func (m MissionSummary) OverallHitRate() float64 {
	if m.MissilesFired == 0 {
		return 0
	}
	return float64(m.Kills) / float64(m.MissilesFired)
}

// Finalize derives each profile's ratios and returns coalition summaries
// (sorted by coalition label) plus the mission rollup. Profiles are treated
// as read-only afterwards.
func Finalize(profiles []*models.PilotProfile, hitRate float64) ([]CoalitionSummary, MissionSummary) {
	var mission MissionSummary
	byCoalition := make(map[string]*CoalitionSummary)

	for _, p := range profiles {
		deaths := p.Deaths
		if deaths < 1 {
			deaths = 1
		}
		p.KillDeathRatio = float64(p.Kills) / float64(deaths)
		if p.MissilesFired > 0 {
			p.HitRateEstimate = hitRate
		} else {
			p.HitRateEstimate = 0
		}

		mission.Pilots++
		if p.Survived {
			mission.Survivors++
		}
		mission.MissilesFired += p.MissilesFired
		mission.Kills += p.Kills
		mission.Deaths += p.Deaths

		c, ok := byCoalition[p.Coalition]
		if !ok {
			c = &CoalitionSummary{Coalition: p.Coalition}
			byCoalition[p.Coalition] = c
		}
		c.Pilots++
		if p.Survived {
			c.Survivors++
		}
		c.MissilesFired += p.MissilesFired
		c.Kills += p.Kills
		c.Deaths += p.Deaths
	}

	coalitions := make([]CoalitionSummary, 0, len(byCoalition))
	for _, c := range byCoalition {
		coalitions = append(coalitions, *c)
	}
	sort.Slice(coalitions, func(i, j int) bool {
		return coalitions[i].Coalition < coalitions[j].Coalition
	})
	return coalitions, mission
}
