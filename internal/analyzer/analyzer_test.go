package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acmi_stats/internal/acmi"
	"acmi_stats/internal/config"
	"acmi_stats/internal/models"
	"acmi_stats/internal/store"
)

func defaultTestConfig() *config.Config {
	return &config.Config{
		Attribution: config.AttributionConfig{HitRate: 0.30, TrustParentLinks: true},
		Log:         config.LogConfig{Level: "info", Format: "text"},
	}
}

func testSession() *acmi.Session {
	return &acmi.Session{
		Path: "mission.txt.acmi",
		Mission: models.MissionInfo{
			Title:         "Red Flag 24-3",
			ReferenceTime: "2024-06-15T19:00:00Z",
			TimeFrames:    120,
			Objects:       9,
		},
		Records: []models.ObjectRecord{
			{ID: "a1", Kind: models.KindAircraft, Name: "F-16C_50", Pilot: "Viper 1-1", Coalition: "Enemies", Country: "us", Group: "Viper", Alive: true},
			{ID: "a2", Kind: models.KindAircraft, Name: "F-16C_50", Pilot: "Viper 1-2", Coalition: "Enemies", Country: "us", Group: "Viper", Alive: true},
			{ID: "r1", Kind: models.KindAircraft, Name: "MiG-21Bis", Pilot: "Fishbed 2-1", Coalition: "Allies", Country: "ru", Group: "Fishbed", Alive: false},
			{ID: "r2", Kind: models.KindAircraft, Name: "MiG-21Bis", Pilot: "Fishbed 2-2", Coalition: "Allies", Country: "ru", Group: "Fishbed", Alive: false},
			{ID: "m1", Kind: models.KindMunition, Name: "AIM_120", Coalition: "Enemies", ParentID: "a1", Alive: false},
			{ID: "m2", Kind: models.KindMunition, Name: "AIM_120", Coalition: "Enemies", ParentID: "a1", Alive: false},
			{ID: "m3", Kind: models.KindMunition, Name: "AIM_120", Coalition: "Enemies", ParentID: "a1", Alive: false},
			{ID: "m4", Kind: models.KindMunition, Name: "AIM-9M", Coalition: "Enemies", Alive: false},
			{ID: "m5", Kind: models.KindMunition, Name: "R-73", Coalition: "Allies", Alive: false},
		},
	}
}

func TestNew_DefaultTables(t *testing.T) {
	a, err := New(defaultTestConfig())
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestNew_BadHitRate(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Attribution.HitRate = 0

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_BadConfigTables(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Families = []config.FamilyConfig{
		{Label: "Sidewinder", Side: "western", Designators: []string{"AIM-9M"}},
		{Label: "Slammer", Side: "western", Designators: []string{"AIM-9M"}},
	}

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to both")
}

func TestRun_EndToEnd(t *testing.T) {
	a, err := New(defaultTestConfig())
	require.NoError(t, err)

	res, err := a.Run(testSession())
	require.NoError(t, err)

	assert.Equal(t, "Red Flag 24-3", res.Mission.Title)
	assert.Equal(t, "mission.txt.acmi", res.SourcePath)
	assert.InDelta(t, 0.30, res.HitRate, 1e-9)
	assert.False(t, res.AnalyzedAt.IsZero())

	require.Len(t, res.Profiles, 4)
	// Profiles arrive sorted by pilot name.
	assert.Equal(t, "Fishbed 2-1", res.Profiles[0].Name)
	assert.Equal(t, "Viper 1-2", res.Profiles[3].Name)

	byName := make(map[string]int)
	for i, p := range res.Profiles {
		byName[p.Name] = i
	}

	lead := res.Profiles[byName["Viper 1-1"]]
	// Three direct AMRAAM launches plus the apportioned Sidewinder.
	assert.Equal(t, 4, lead.MissilesFired)
	assert.Equal(t, []string{"AMRAAM", "Sidewinder"}, lead.MunitionTypesUsed)
	// floor(4*0.3)=1, capped by floor(2*(4/4))=2.
	assert.Equal(t, 1, lead.Kills)
	assert.True(t, lead.Survived)

	fishbed := res.Profiles[byName["Fishbed 2-1"]]
	// Dead pilots stay eligible for apportionment: the R-73 goes to the
	// first Fishbed even though both were shot down.
	assert.Equal(t, 1, fishbed.MissilesFired)
	assert.Equal(t, []string{"Archer"}, fishbed.MunitionTypesUsed)
	assert.Equal(t, 1, fishbed.Deaths)
	assert.False(t, fishbed.Survived)
	// Allies lost everything the session lost, so their enemy losses are 0.
	assert.Zero(t, fishbed.Kills)
	assert.InDelta(t, 0.0, fishbed.KillDeathRatio, 1e-9)

	assert.Equal(t, 5, res.Totals.Munitions)
	assert.Equal(t, 5, res.Totals.Launches)
	assert.Equal(t, 3, res.Totals.Direct)
	assert.Equal(t, 2, res.Totals.Apportioned)
	assert.Zero(t, res.Totals.Unattributed())

	require.Len(t, res.Coalitions, 2)
	assert.Equal(t, "Allies", res.Coalitions[0].Coalition)
	assert.Equal(t, "Enemies", res.Coalitions[1].Coalition)
	assert.Equal(t, 2, res.Coalitions[0].Deaths)

	assert.Equal(t, 4, res.Summary.Pilots)
	assert.Equal(t, 2, res.Summary.Survivors)
	assert.Equal(t, 2, res.Summary.Casualties())
}

func TestRun_CustomTables(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Families = []config.FamilyConfig{
		{Label: "Magic", Side: "western", Designators: []string{"R-550"}},
	}
	cfg.Platforms = []config.PlatformConfig{
		{Designator: "Mirage-F1EE", Side: "western"},
	}

	a, err := New(cfg)
	require.NoError(t, err)

	sess := &acmi.Session{
		Records: []models.ObjectRecord{
			{ID: "a1", Kind: models.KindAircraft, Name: "Mirage-F1EE", Pilot: "A", Coalition: "Blue", Alive: true},
			{ID: "m1", Kind: models.KindMunition, Name: "R-550", Coalition: "Blue", Alive: false},
			// Known to the built-in tables, unknown to the custom ones.
			{ID: "m2", Kind: models.KindMunition, Name: "AIM_120", Coalition: "Blue", Alive: false},
		},
	}

	res, err := a.Run(sess)
	require.NoError(t, err)

	require.Len(t, res.Profiles, 1)
	assert.Equal(t, 1, res.Profiles[0].MissilesFired)
	assert.Equal(t, []string{"Magic"}, res.Profiles[0].MunitionTypesUsed)
	assert.Equal(t, 1, res.Totals.Unclassified)
}

func TestRun_DuplicateIDFails(t *testing.T) {
	a, err := New(defaultTestConfig())
	require.NoError(t, err)

	sess := &acmi.Session{
		Records: []models.ObjectRecord{
			{ID: "x1", Kind: models.KindAircraft, Pilot: "A", Alive: true},
			{ID: "x1", Kind: models.KindMunition, Name: "AIM-9M", Alive: false},
		},
	}

	_, err = a.Run(sess)
	require.Error(t, err)

	var dup *store.DuplicateIDError
	assert.ErrorAs(t, err, &dup)
}

func TestRun_EmptySession(t *testing.T) {
	a, err := New(defaultTestConfig())
	require.NoError(t, err)

	res, err := a.Run(&acmi.Session{})
	require.NoError(t, err)
	assert.Empty(t, res.Profiles)
	assert.Zero(t, res.Summary.Pilots)
	assert.Empty(t, res.Coalitions)
}
