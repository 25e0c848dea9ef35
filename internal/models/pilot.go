package models

// PilotProfile aggregates combat statistics for one pilot name within one
// session. Profiles are created through NewPilotProfile exactly once per
// first-seen pilot name; counters start at zero and are mutated only by the
// attribution engine, then finalized by the aggregator.
//
// The JSON field names mirror the export format consumed by downstream
// tooling, so they must not change casually.
type PilotProfile struct {
	Name      string `json:"pilot_name"`
	Aircraft  string `json:"aircraft_type"`
	Coalition string `json:"coalition"`
	Country   string `json:"country"`
	Group     string `json:"group"`

	MissilesFired     int      `json:"missiles_fired"`
	Kills             int      `json:"air_to_air_kills"`
	Deaths            int      `json:"deaths"`
	Survived          bool     `json:"survived"`
	MunitionTypesUsed []string `json:"missile_types_used"`

	// Derived by the aggregator once attribution completes. The hit rate is
	// meaningful only for pilots who fired, so exports omit it otherwise.
	HitRateEstimate float64 `json:"estimated_hit_rate,omitempty"`
	KillDeathRatio  float64 `json:"kill_death_ratio"`
}

// NewPilotProfile creates a profile with identity fields taken from the
// first-seen aircraft record for this pilot. The session format does not
// model a pilot changing aircraft mid-session, so first-seen values stand.
func NewPilotProfile(rec ObjectRecord) *PilotProfile {
	return &PilotProfile{
		Name:              rec.Pilot,
		Aircraft:          rec.Name,
		Coalition:         rec.Coalition,
		Country:           rec.Country,
		Group:             rec.Group,
		MunitionTypesUsed: []string{},
	}
}

// AddMunitionType records a munition family label, keeping the list
// deduplicated and in first-credited order.
func (p *PilotProfile) AddMunitionType(label string) {
	for _, t := range p.MunitionTypesUsed {
		if t == label {
			return
		}
	}
	p.MunitionTypesUsed = append(p.MunitionTypesUsed, label)
}
