package classify

// DefaultFamilies returns the built-in munition family table. Designators are
// the exact type names DCS writes into recordings, so variants of one weapon
// (R-27R, R-27ER, ...) are listed individually rather than prefix-matched.
func DefaultFamilies() []MunitionFamily {
	return []MunitionFamily{
		{
			Label:       "AMRAAM",
			Side:        SideWestern,
			Designators: []string{"AIM_120", "AIM_120B", "AIM_120C"},
		},
		{
			Label:       "Sidewinder",
			Side:        SideWestern,
			Designators: []string{"AIM-9L", "AIM-9M", "AIM-9P", "AIM-9P5", "AIM-9X"},
		},
		{
			Label:       "Sparrow",
			Side:        SideWestern,
			Designators: []string{"AIM-7E", "AIM-7F", "AIM-7M", "AIM-7MH"},
		},
		{
			Label:       "Alamo",
			Side:        SideEastern,
			Designators: []string{"R-27R", "R-27ER", "R-27T", "R-27ET"},
		},
		{
			Label:       "Archer",
			Side:        SideEastern,
			Designators: []string{"R-73"},
		},
		{
			Label:       "Adder",
			Side:        SideEastern,
			Designators: []string{"R-77"},
		},
		{
			Label:       "Apex",
			Side:        SideEastern,
			Designators: []string{"P_24R", "P_24T"},
		},
	}
}

// DefaultPlatforms returns the built-in fighter platform table.
func DefaultPlatforms() []PlatformEntry {
	return []PlatformEntry{
		{Designator: "F-16A", Side: SideWestern},
		{Designator: "F-16A MLU", Side: SideWestern},
		{Designator: "F-16C bl.50", Side: SideWestern},
		{Designator: "F-16C bl.52d", Side: SideWestern},
		{Designator: "F-16C_50", Side: SideWestern},
		{Designator: "F-4E", Side: SideWestern},
		{Designator: "F-4E-45MC", Side: SideWestern},
		{Designator: "F/A-18C", Side: SideWestern},
		{Designator: "FA-18C_hornet", Side: SideWestern},
		{Designator: "MiG-21Bis", Side: SideEastern},
		{Designator: "MiG-23MLD", Side: SideEastern},
		{Designator: "MiG-25PD", Side: SideEastern},
		{Designator: "MiG-25RBT", Side: SideEastern},
		{Designator: "Su-27", Side: SideEastern},
	}
}
