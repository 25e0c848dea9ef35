// Package report renders analysis results for people and machines: a console
// report, a JSON export, and a CSV export. Every format carries the caveats
// that launch and kill figures are estimates.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"acmi_stats/internal/analyzer"
	"acmi_stats/internal/models"
)

const bannerWidth = 80

// WriteConsole renders the full combat report: per-pilot blocks grouped by
// coalition, then mission totals, coalition breakdown, and the launch
// attribution trailer.
func WriteConsole(w io.Writer, res *analyzer.Result) error {
	bw := bufio.NewWriter(w)

	heavy := strings.Repeat("=", bannerWidth)
	thin := strings.Repeat("-", bannerWidth)

	fmt.Fprintln(bw, heavy)
	fmt.Fprintln(bw, "AIR-TO-AIR COMBAT ANALYSIS REPORT")
	fmt.Fprintln(bw, heavy)
	fmt.Fprintf(bw, "Mission: %s\n", orUnknown(res.Mission.Title))
	fmt.Fprintf(bw, "Date: %s\n", orUnknown(res.Mission.ReferenceTime))
	fmt.Fprintf(bw, "Duration: %d time frames\n", res.Mission.TimeFrames)
	fmt.Fprintf(bw, "Total Objects: %d\n", res.Mission.Objects)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, thin)
	fmt.Fprintln(bw, "PILOT STATISTICS")
	fmt.Fprintln(bw, thin)

	coalition := ""
	started := false
	for _, p := range sortForDisplay(res.Profiles) {
		if !started || p.Coalition != coalition {
			coalition = p.Coalition
			started = true
			fmt.Fprintf(bw, "\n%s COALITION:\n", strings.ToUpper(orUnknown(coalition)))
			fmt.Fprintln(bw, strings.Repeat("-", 40))
		}
		writePilotBlock(bw, p)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, thin)
	fmt.Fprintln(bw, "SUMMARY STATISTICS")
	fmt.Fprintln(bw, thin)
	fmt.Fprintf(bw, "Total Pilots: %d\n", res.Summary.Pilots)
	fmt.Fprintf(bw, "Survivors: %d\n", res.Summary.Survivors)
	fmt.Fprintf(bw, "Casualties: %d\n", res.Summary.Casualties())
	fmt.Fprintf(bw, "Total Missiles Fired: %d\n", res.Summary.MissilesFired)
	fmt.Fprintf(bw, "Total Estimated Kills: %d\n", res.Summary.Kills)
	fmt.Fprintf(bw, "Total Aircraft Lost: %d\n", res.Summary.Deaths)
	if res.Summary.MissilesFired > 0 {
		fmt.Fprintf(bw, "Overall Estimated Hit Rate: %.1f%%\n", res.Summary.OverallHitRate()*100)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Coalition Breakdown:")
	for _, c := range res.Coalitions {
		fmt.Fprintf(bw, "  %s:\n", orUnknown(c.Coalition))
		fmt.Fprintf(bw, "    Pilots: %d (Survivors: %d)\n", c.Pilots, c.Survivors)
		fmt.Fprintf(bw, "    Missiles Fired: %d\n", c.MissilesFired)
		fmt.Fprintf(bw, "    Estimated Kills: %d\n", c.Kills)
		fmt.Fprintf(bw, "    Aircraft Lost: %d\n", c.Deaths)
		if c.Deaths > 0 {
			fmt.Fprintf(bw, "    K/D Ratio: %.2f\n", c.KillDeathRatio())
		}
		if c.MissilesFired > 0 {
			fmt.Fprintf(bw, "    Hit Rate: %.1f%%\n", c.HitRate()*100)
		}
	}

	// The attribution gap stays visible: launches nobody was credited with
	// are reported, never silently folded into someone's score.
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Launch Attribution:")
	fmt.Fprintf(bw, "  Air-to-Air Launches: %d\n", res.Totals.Launches)
	fmt.Fprintf(bw, "  Directly Linked: %d\n", res.Totals.Direct)
	fmt.Fprintf(bw, "  Apportioned: %d\n", res.Totals.Apportioned)
	fmt.Fprintf(bw, "  Unattributed: %d\n", res.Totals.Unattributed())

	return bw.Flush()
}

func writePilotBlock(bw *bufio.Writer, p *models.PilotProfile) {
	status := "KIA"
	if p.Survived {
		status = "SURVIVED"
	}
	fmt.Fprintf(bw, "Pilot: %s (%s)\n", p.Name, status)
	fmt.Fprintf(bw, "  Aircraft: %s\n", orUnknown(p.Aircraft))
	fmt.Fprintf(bw, "  Country: %s\n", orUnknown(p.Country))
	fmt.Fprintf(bw, "  Group: %s\n", orUnknown(p.Group))
	fmt.Fprintf(bw, "  Missiles Fired: %d\n", p.MissilesFired)
	if len(p.MunitionTypesUsed) > 0 {
		fmt.Fprintf(bw, "  Missile Types: %s\n", strings.Join(p.MunitionTypesUsed, ", "))
	}
	fmt.Fprintf(bw, "  Estimated Kills: %d\n", p.Kills)
	fmt.Fprintf(bw, "  Deaths: %d\n", p.Deaths)
	fmt.Fprintf(bw, "  Kill/Death Ratio: %.2f\n", p.KillDeathRatio)
	if p.MissilesFired > 0 {
		fmt.Fprintf(bw, "  Estimated Hit Rate: %.1f%%\n", p.HitRateEstimate*100)
	}
	fmt.Fprintln(bw)
}

// sortForDisplay orders pilots by coalition, then kills and missiles fired
// descending, then pilot name to break remaining ties deterministically.
func sortForDisplay(profiles []*models.PilotProfile) []*models.PilotProfile {
	pilots := make([]*models.PilotProfile, len(profiles))
	copy(pilots, profiles)
	sort.SliceStable(pilots, func(i, j int) bool {
		a, b := pilots[i], pilots[j]
		if a.Coalition != b.Coalition {
			return a.Coalition < b.Coalition
		}
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		if a.MissilesFired != b.MissilesFired {
			return a.MissilesFired > b.MissilesFired
		}
		return a.Name < b.Name
	})
	return pilots
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
