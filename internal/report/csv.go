package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"acmi_stats/internal/analyzer"
)

// csvRow flattens one pilot profile for spreadsheet import.
type csvRow struct {
	Pilot           string  `csv:"pilot"`
	Coalition       string  `csv:"coalition"`
	Aircraft        string  `csv:"aircraft"`
	Country         string  `csv:"country"`
	Group           string  `csv:"group"`
	MissilesFired   int     `csv:"missiles_fired"`
	MissileTypes    string  `csv:"missile_types"`
	Kills           int     `csv:"air_to_air_kills"`
	Deaths          int     `csv:"deaths"`
	Survived        bool    `csv:"survived"`
	KillDeathRatio  float64 `csv:"kill_death_ratio"`
	HitRateEstimate float64 `csv:"estimated_hit_rate"`
}

// WriteCSV writes one row per pilot, in the same order the console report
// lists them.
func WriteCSV(w io.Writer, res *analyzer.Result) error {
	rows := make([]*csvRow, 0, len(res.Profiles))
	for _, p := range sortForDisplay(res.Profiles) {
		rows = append(rows, &csvRow{
			Pilot:           p.Name,
			Coalition:       p.Coalition,
			Aircraft:        p.Aircraft,
			Country:         p.Country,
			Group:           p.Group,
			MissilesFired:   p.MissilesFired,
			MissileTypes:    strings.Join(p.MunitionTypesUsed, "; "),
			Kills:           p.Kills,
			Deaths:          p.Deaths,
			Survived:        p.Survived,
			KillDeathRatio:  p.KillDeathRatio,
			HitRateEstimate: p.HitRateEstimate,
		})
	}
	return gocsv.Marshal(&rows, w)
}

// ExportCSV writes the pilot table to a file.
func ExportCSV(path string, res *analyzer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, res); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
