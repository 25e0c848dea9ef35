// Package store holds the object records of one flight session, indexed by
// id and partitioned into alive and removed sets. A store is populated once
// during ingestion, frozen, and read-only afterwards.
package store

import (
	"errors"
	"fmt"

	"acmi_stats/internal/models"
)

// ErrFrozen is returned by Ingest after Freeze has been called.
var ErrFrozen = errors.New("store is frozen")

// DuplicateIDError reports two records claiming the same id with different
// kinds. The dataset is structurally invalid and analysis must not proceed.
type DuplicateIDError struct {
	ID       string
	Existing models.ObjectKind
	Incoming models.ObjectKind
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("object %s ingested as %s but already present as %s",
		e.ID, e.Incoming, e.Existing)
}

// Store indexes the records of a single session in ingestion order.
type Store struct {
	records map[string]*models.ObjectRecord
	order   []string
	frozen  bool
}

func New() *Store {
	return &Store{records: make(map[string]*models.ObjectRecord)}
}

// Ingest adds a record. Re-ingesting an id with the same kind merges the two
// records: non-empty incoming fields win, and an object that has been removed
// never comes back alive. A kind mismatch returns DuplicateIDError.
func (s *Store) Ingest(rec models.ObjectRecord) error {
	if s.frozen {
		return ErrFrozen
	}
	existing, ok := s.records[rec.ID]
	if !ok {
		r := rec
		s.records[rec.ID] = &r
		s.order = append(s.order, rec.ID)
		return nil
	}
	if existing.Kind != rec.Kind {
		return &DuplicateIDError{ID: rec.ID, Existing: existing.Kind, Incoming: rec.Kind}
	}
	merge(existing, rec)
	return nil
}

func merge(dst *models.ObjectRecord, src models.ObjectRecord) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Pilot != "" {
		dst.Pilot = src.Pilot
	}
	if src.Coalition != "" {
		dst.Coalition = src.Coalition
	}
	if src.Country != "" {
		dst.Country = src.Country
	}
	if src.Group != "" {
		dst.Group = src.Group
	}
	if src.ParentID != "" {
		dst.ParentID = src.ParentID
	}
	// Alive -> Removed happens exactly once and is never undone.
	dst.Alive = dst.Alive && src.Alive
}

// Freeze ends the ingestion phase. Further Ingest calls fail with ErrFrozen.
func (s *Store) Freeze() {
	s.frozen = true
}

// Len returns the number of distinct objects ingested.
func (s *Store) Len() int {
	return len(s.order)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (models.ObjectRecord, bool) {
	rec, ok := s.records[id]
	if !ok {
		return models.ObjectRecord{}, false
	}
	return *rec, true
}

// All returns copies of every record in ingestion order.
func (s *Store) All() []models.ObjectRecord {
	return s.filter(func(models.ObjectRecord) bool { return true })
}

// Alive returns the records still alive at session end, in ingestion order.
func (s *Store) Alive() []models.ObjectRecord {
	return s.filter(func(r models.ObjectRecord) bool { return r.Alive })
}

// Removed returns the records removed during the session, in ingestion order.
func (s *Store) Removed() []models.ObjectRecord {
	return s.filter(func(r models.ObjectRecord) bool { return !r.Alive })
}

// ByCoalition returns the records of one coalition, in ingestion order.
func (s *Store) ByCoalition(label string) []models.ObjectRecord {
	return s.filter(func(r models.ObjectRecord) bool { return r.Coalition == label })
}

// ByKind returns the records of one kind, in ingestion order.
func (s *Store) ByKind(kind models.ObjectKind) []models.ObjectRecord {
	return s.filter(func(r models.ObjectRecord) bool { return r.Kind == kind })
}

func (s *Store) filter(keep func(models.ObjectRecord) bool) []models.ObjectRecord {
	out := make([]models.ObjectRecord, 0, len(s.order))
	for _, id := range s.order {
		if rec := *s.records[id]; keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
