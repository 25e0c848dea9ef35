package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"acmi_stats/internal/analyzer"
	"acmi_stats/internal/attribution"
	"acmi_stats/internal/models"
)

// Export is the JSON document produced for downstream tooling.
type Export struct {
	MissionInfo       models.MissionInfo              `json:"mission_info"`
	PilotStatistics   map[string]*models.PilotProfile `json:"pilot_statistics"`
	AnalysisTimestamp string                          `json:"analysis_timestamp"`
	AnalysisNotes     []string                        `json:"analysis_notes"`
}

// analysisNotes returns the mandatory caveats disclosing the heuristic nature
// of the figures, plus a note quantifying any attribution gap.
func analysisNotes(totals attribution.Totals) []string {
	notes := []string{
		"This analysis uses estimated missile assignments based on aircraft capabilities",
		"Kill estimates are based on coalition losses and missile effectiveness assumptions",
		"Actual combat results may differ from these estimates",
	}
	if n := totals.Unattributed(); n > 0 {
		notes = append(notes, fmt.Sprintf(
			"%d launches could not be attributed to any pilot (%d unclassified, %d without eligible pilots)",
			n, totals.Unclassified, totals.NoEligible))
	}
	return notes
}

// WriteJSON writes the export document with two-space indentation.
func WriteJSON(w io.Writer, res *analyzer.Result) error {
	stats := make(map[string]*models.PilotProfile, len(res.Profiles))
	for _, p := range res.Profiles {
		stats[p.Name] = p
	}

	doc := Export{
		MissionInfo:       res.Mission,
		PilotStatistics:   stats,
		AnalysisTimestamp: res.AnalyzedAt.Format(time.RFC3339),
		AnalysisNotes:     analysisNotes(res.Totals),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportJSON writes the export document to a file.
func ExportJSON(path string, res *analyzer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, res); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
