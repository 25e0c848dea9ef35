package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acmi_stats/internal/models"
)

func sampleProfiles() []*models.PilotProfile {
	return []*models.PilotProfile{
		{Name: "A", Coalition: "Blue", MissilesFired: 6, Kills: 1, Deaths: 0, Survived: true},
		{Name: "B", Coalition: "Blue", MissilesFired: 4, Kills: 0, Deaths: 1, Survived: false},
		{Name: "R1", Coalition: "Red", MissilesFired: 0, Kills: 0, Deaths: 2, Survived: false},
		{Name: "R2", Coalition: "Red", MissilesFired: 3, Kills: 2, Deaths: 0, Survived: true},
	}
}

func TestFinalize_PilotRatios(t *testing.T) {
	profiles := sampleProfiles()
	Finalize(profiles, 0.30)

	// Zero deaths divide by one, not by zero.
	assert.InDelta(t, 1.0, profiles[0].KillDeathRatio, 1e-9)
	assert.InDelta(t, 0.0, profiles[1].KillDeathRatio, 1e-9)
	assert.InDelta(t, 0.0, profiles[2].KillDeathRatio, 1e-9)
	assert.InDelta(t, 2.0, profiles[3].KillDeathRatio, 1e-9)

	// Hit rate estimate is the configured constant, only for shooters.
	assert.InDelta(t, 0.30, profiles[0].HitRateEstimate, 1e-9)
	assert.Zero(t, profiles[2].HitRateEstimate)
}

func TestFinalize_CoalitionSummaries(t *testing.T) {
	coalitions, mission := Finalize(sampleProfiles(), 0.30)

	require.Len(t, coalitions, 2)
	// Sorted by coalition label.
	assert.Equal(t, "Blue", coalitions[0].Coalition)
	assert.Equal(t, "Red", coalitions[1].Coalition)

	blue := coalitions[0]
	assert.Equal(t, 2, blue.Pilots)
	assert.Equal(t, 1, blue.Survivors)
	assert.Equal(t, 10, blue.MissilesFired)
	assert.Equal(t, 1, blue.Kills)
	assert.Equal(t, 1, blue.Deaths)
	assert.InDelta(t, 1.0, blue.KillDeathRatio(), 1e-9)
	assert.InDelta(t, 0.1, blue.HitRate(), 1e-9)

	red := coalitions[1]
	assert.Equal(t, 2, red.Pilots)
	assert.Equal(t, 2, red.Deaths)
	assert.InDelta(t, 1.0, red.KillDeathRatio(), 1e-9)

	assert.Equal(t, 4, mission.Pilots)
	assert.Equal(t, 2, mission.Survivors)
	assert.Equal(t, 2, mission.Casualties())
	assert.Equal(t, 13, mission.MissilesFired)
	assert.Equal(t, 3, mission.Kills)
	assert.Equal(t, 3, mission.Deaths)
	assert.InDelta(t, 3.0/13.0, mission.OverallHitRate(), 1e-9)
}

func TestFinalize_ZeroGuards(t *testing.T) {
	profiles := []*models.PilotProfile{
		{Name: "A", Coalition: "Blue", MissilesFired: 0, Kills: 0, Deaths: 0, Survived: true},
	}
	coalitions, mission := Finalize(profiles, 0.30)

	require.Len(t, coalitions, 1)
	assert.Zero(t, coalitions[0].KillDeathRatio())
	assert.Zero(t, coalitions[0].HitRate())
	assert.Zero(t, mission.OverallHitRate())
}

func TestFinalize_Idempotent(t *testing.T) {
	profiles := sampleProfiles()

	c1, m1 := Finalize(profiles, 0.30)
	c2, m2 := Finalize(profiles, 0.30)

	assert.Equal(t, c1, c2)
	assert.Equal(t, m1, m2)
	assert.Equal(t, sampleProfiles()[0].MissilesFired, profiles[0].MissilesFired)
}

func TestFinalize_Empty(t *testing.T) {
	coalitions, mission := Finalize(nil, 0.30)
	assert.Empty(t, coalitions)
	assert.Zero(t, mission.Pilots)
	assert.Zero(t, mission.Casualties())
}
