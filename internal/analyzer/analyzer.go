// Package analyzer wires the analysis pipeline together: session records go
// into a lifecycle store, the attribution engine derives pilot statistics,
// and the aggregator rolls them up for reporting.
package analyzer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"acmi_stats/internal/acmi"
	"acmi_stats/internal/aggregate"
	"acmi_stats/internal/attribution"
	"acmi_stats/internal/classify"
	"acmi_stats/internal/config"
	"acmi_stats/internal/models"
	"acmi_stats/internal/store"
)

// Result is the complete outcome of analyzing one session.
type Result struct {
	Mission     models.MissionInfo
	SourcePath  string
	Profiles    []*models.PilotProfile // sorted by pilot name
	Attribution []attribution.Result
	Totals      attribution.Totals
	Coalitions  []aggregate.CoalitionSummary
	Summary     aggregate.MissionSummary
	HitRate     float64
	AnalyzedAt  time.Time
}

// Analyzer runs the attribution policy configured at construction over any
// number of sessions.
type Analyzer struct {
	engine  *attribution.Engine
	hitRate float64
}

// New builds an analyzer from configuration. Classification tables from the
// config replace the built-in reference tables wholesale; an absent table
// keeps the built-in one.
func New(cfg *config.Config) (*Analyzer, error) {
	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	engine, err := attribution.NewEngine(classifier, attribution.Config{
		HitRate:          cfg.Attribution.HitRate,
		TrustParentLinks: cfg.Attribution.TrustParentLinks,
	})
	if err != nil {
		return nil, fmt.Errorf("build attribution engine: %w", err)
	}

	return &Analyzer{engine: engine, hitRate: cfg.Attribution.HitRate}, nil
}

// Run analyzes one loaded session. Structurally invalid record sets fail;
// sparse data does not.
func (a *Analyzer) Run(sess *acmi.Session) (*Result, error) {
	s := store.New()
	for _, rec := range sess.Records {
		if err := s.Ingest(rec); err != nil {
			return nil, fmt.Errorf("ingest session records: %w", err)
		}
	}
	s.Freeze()

	aircraft := s.ByKind(models.KindAircraft)
	aliveAircraft := 0
	for _, rec := range aircraft {
		if rec.Alive {
			aliveAircraft++
		}
	}
	slog.Info("analyzing combat data",
		"aircraft", len(aircraft),
		"alive", aliveAircraft,
		"lost", len(aircraft)-aliveAircraft,
		"munitions", len(s.ByKind(models.KindMunition)))

	outcome := a.engine.Run(s)
	coalitions, summary := aggregate.Finalize(outcome.Profiles, a.hitRate)

	if n := outcome.Totals.Unattributed(); n > 0 {
		slog.Warn("some launches could not be attributed",
			"unattributed", n,
			"unclassified", outcome.Totals.Unclassified,
			"no_eligible_pilots", outcome.Totals.NoEligible)
	}

	return &Result{
		Mission:     sess.Mission,
		SourcePath:  sess.Path,
		Profiles:    outcome.Profiles,
		Attribution: outcome.Results,
		Totals:      outcome.Totals,
		Coalitions:  coalitions,
		Summary:     summary,
		HitRate:     a.hitRate,
		AnalyzedAt:  time.Now(),
	}, nil
}

func buildClassifier(cfg *config.Config) (*classify.Classifier, error) {
	if len(cfg.Families) == 0 && len(cfg.Platforms) == 0 {
		return classify.Default(), nil
	}

	families := classify.DefaultFamilies()
	if len(cfg.Families) > 0 {
		families = make([]classify.MunitionFamily, 0, len(cfg.Families))
		for _, f := range cfg.Families {
			side := classify.SideUnknown
			if f.Side != "" {
				var err error
				side, err = classify.ParseSide(strings.ToLower(f.Side))
				if err != nil {
					return nil, fmt.Errorf("family %q: %w", f.Label, err)
				}
			}
			families = append(families, classify.MunitionFamily{
				Label:       f.Label,
				Side:        side,
				Designators: f.Designators,
				Platforms:   f.Platforms,
			})
		}
	}

	platforms := classify.DefaultPlatforms()
	if len(cfg.Platforms) > 0 {
		platforms = make([]classify.PlatformEntry, 0, len(cfg.Platforms))
		for _, p := range cfg.Platforms {
			side, err := classify.ParseSide(strings.ToLower(p.Side))
			if err != nil {
				return nil, fmt.Errorf("platform %q: %w", p.Designator, err)
			}
			platforms = append(platforms, classify.PlatformEntry{
				Designator: p.Designator,
				Side:       side,
			})
		}
	}

	return classify.New(families, platforms)
}
