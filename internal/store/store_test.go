package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acmi_stats/internal/models"
)

func TestStore_IngestAndViews(t *testing.T) {
	s := New()

	records := []models.ObjectRecord{
		{ID: "102", Kind: models.KindAircraft, Name: "F-16C_50", Pilot: "Viper 1-1", Coalition: "Enemies", Alive: true},
		{ID: "103", Kind: models.KindAircraft, Name: "MiG-21Bis", Pilot: "Fishbed 2-1", Coalition: "Allies", Alive: false},
		{ID: "204", Kind: models.KindMunition, Name: "AIM_120", Coalition: "Enemies", Alive: false},
		{ID: "205", Kind: models.KindOther, Name: "SA-11", Coalition: "Allies", Alive: true},
	}
	for _, rec := range records {
		require.NoError(t, s.Ingest(rec))
	}

	assert.Equal(t, 4, s.Len())

	all := s.All()
	require.Len(t, all, 4)
	// Views preserve ingestion order.
	assert.Equal(t, "102", all[0].ID)
	assert.Equal(t, "205", all[3].ID)

	alive := s.Alive()
	require.Len(t, alive, 2)
	assert.Equal(t, "102", alive[0].ID)
	assert.Equal(t, "205", alive[1].ID)

	removed := s.Removed()
	require.Len(t, removed, 2)
	assert.Equal(t, "103", removed[0].ID)
	assert.Equal(t, "204", removed[1].ID)

	enemies := s.ByCoalition("Enemies")
	require.Len(t, enemies, 2)
	assert.Equal(t, "102", enemies[0].ID)

	aircraft := s.ByKind(models.KindAircraft)
	require.Len(t, aircraft, 2)

	rec, ok := s.Get("204")
	require.True(t, ok)
	assert.Equal(t, "AIM_120", rec.Name)

	_, ok = s.Get("999")
	assert.False(t, ok)
}

func TestStore_IngestMerges(t *testing.T) {
	s := New()

	require.NoError(t, s.Ingest(models.ObjectRecord{
		ID: "102", Kind: models.KindAircraft, Name: "F-16C_50", Alive: true,
	}))
	require.NoError(t, s.Ingest(models.ObjectRecord{
		ID: "102", Kind: models.KindAircraft, Pilot: "Viper 1-1", Coalition: "Enemies", Alive: true,
	}))

	assert.Equal(t, 1, s.Len())
	rec, ok := s.Get("102")
	require.True(t, ok)
	assert.Equal(t, "F-16C_50", rec.Name)
	assert.Equal(t, "Viper 1-1", rec.Pilot)
	assert.Equal(t, "Enemies", rec.Coalition)
	assert.True(t, rec.Alive)
}

func TestStore_RemovalIsFinal(t *testing.T) {
	s := New()

	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft, Alive: true}))
	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft, Alive: false}))
	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft, Alive: true}))

	rec, _ := s.Get("102")
	assert.False(t, rec.Alive, "a removed object must not come back alive")
}

func TestStore_DuplicateIDConflict(t *testing.T) {
	s := New()

	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft}))
	err := s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindMunition})
	require.Error(t, err)

	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "102", dup.ID)
	assert.Equal(t, models.KindAircraft, dup.Existing)
	assert.Equal(t, models.KindMunition, dup.Incoming)
}

func TestStore_Freeze(t *testing.T) {
	s := New()

	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft}))
	s.Freeze()

	err := s.Ingest(models.ObjectRecord{ID: "103", Kind: models.KindAircraft})
	assert.ErrorIs(t, err, ErrFrozen)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ViewsAreCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.Ingest(models.ObjectRecord{ID: "102", Kind: models.KindAircraft, Name: "F-16C_50"}))

	view := s.All()
	view[0].Name = "changed"

	rec, _ := s.Get("102")
	assert.Equal(t, "F-16C_50", rec.Name)
}
