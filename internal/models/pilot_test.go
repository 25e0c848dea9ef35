package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPilotProfile(t *testing.T) {
	rec := ObjectRecord{
		ID:        "a02",
		Kind:      KindAircraft,
		Name:      "F-16C_50",
		Pilot:     "Viper 1-1",
		Coalition: "Enemies",
		Country:   "us",
		Group:     "Viper Flight",
		Alive:     true,
	}

	p := NewPilotProfile(rec)
	require.NotNil(t, p)
	assert.Equal(t, "Viper 1-1", p.Name)
	assert.Equal(t, "F-16C_50", p.Aircraft)
	assert.Equal(t, "Enemies", p.Coalition)
	assert.Equal(t, "us", p.Country)
	assert.Equal(t, "Viper Flight", p.Group)
	assert.Zero(t, p.MissilesFired)
	assert.Zero(t, p.Kills)
	assert.Zero(t, p.Deaths)
	assert.False(t, p.Survived)
	assert.NotNil(t, p.MunitionTypesUsed)
	assert.Empty(t, p.MunitionTypesUsed)
}

func TestPilotProfile_AddMunitionType(t *testing.T) {
	p := NewPilotProfile(ObjectRecord{Pilot: "Viper 1-1"})

	p.AddMunitionType("AMRAAM")
	p.AddMunitionType("Sidewinder")
	p.AddMunitionType("AMRAAM") // duplicate
	p.AddMunitionType("Sidewinder")

	assert.Equal(t, []string{"AMRAAM", "Sidewinder"}, p.MunitionTypesUsed)
}

func TestPilotProfile_JSONShape(t *testing.T) {
	p := NewPilotProfile(ObjectRecord{
		Pilot:     "Viper 1-1",
		Name:      "F-16C_50",
		Coalition: "Enemies",
	})
	p.MissilesFired = 3
	p.Kills = 1
	p.Survived = true
	p.HitRateEstimate = 0.3
	p.KillDeathRatio = 1.0

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "Viper 1-1", got["pilot_name"])
	assert.Equal(t, "F-16C_50", got["aircraft_type"])
	assert.Equal(t, float64(3), got["missiles_fired"])
	assert.Equal(t, float64(1), got["air_to_air_kills"])
	assert.Equal(t, float64(0), got["deaths"])
	assert.Equal(t, true, got["survived"])

	// An empty munition list must serialize as [], not null.
	types, ok := got["missile_types_used"].([]any)
	require.True(t, ok)
	assert.Empty(t, types)
}

func TestPilotProfile_JSONOmitsHitRateWhenNotFiring(t *testing.T) {
	p := NewPilotProfile(ObjectRecord{Pilot: "Fishbed 2-1"})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	_, present := got["estimated_hit_rate"]
	assert.False(t, present, "Hit rate is undefined for a pilot who never fired")
	assert.Contains(t, got, "kill_death_ratio")
}
