package models

import "strings"

// ObjectKind classifies a session object for analysis purposes.
type ObjectKind int

const (
	KindOther ObjectKind = iota
	KindAircraft
	KindMunition
)

func (k ObjectKind) String() string {
	switch k {
	case KindAircraft:
		return "aircraft"
	case KindMunition:
		return "munition"
	default:
		return "other"
	}
}

// KindFromTags derives the object kind from an ACMI Type property value,
// a '+'-separated tag list such as "Air+FixedWing" or "Medium+Weapon+Missile".
func KindFromTags(typeValue string) ObjectKind {
	for _, tag := range strings.Split(typeValue, "+") {
		switch tag {
		case "FixedWing":
			return KindAircraft
		case "Missile":
			return KindMunition
		}
	}
	return KindOther
}

// ObjectRecord is one flight-session entity in its final observed state.
// The recording updates the same object across many frames; the ingestion
// adapter merges those updates so one record per id reaches the store.
type ObjectRecord struct {
	ID        string
	Kind      ObjectKind
	Name      string // type designator, e.g. "F-16C_50" or "AIM_120C"
	Pilot     string // aircraft only, may be empty
	Coalition string
	Country   string
	Group     string
	ParentID  string // launcher reference, frequently absent from recordings
	Alive     bool
}
