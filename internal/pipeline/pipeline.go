package pipeline

import (
	"context"
	"time"

	"icsvalidate/internal/config"
	"icsvalidate/internal/ics"
	appLog "icsvalidate/internal/log"
	"icsvalidate/internal/model"
	"icsvalidate/internal/report"
	"icsvalidate/internal/source"
)

// Loader reads a calendar document from a location.
type Loader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

// Runner validates documents using the settings of a Config.
type Runner struct {
	cfg    *config.Config
	loader Loader
}

// NewRunner returns a Runner. A nil loader defaults to a source.Loader
// caching under cfg.CacheDir.
func NewRunner(cfg *config.Config, loader Loader) *Runner {
	if loader == nil {
		loader = source.NewLoader(cfg.CacheDir)
	}
	return &Runner{cfg: cfg, loader: loader}
}

// Run loads location and validates it. The returned error is non-nil only
// when the document could not be read; validation findings are in the report.
func (r *Runner) Run(ctx context.Context, location string) (report.Report, error) {
	body, err := r.loader.Load(ctx, location)
	if err != nil {
		return report.Report{}, err
	}
	return r.Validate(location, body), nil
}

// Validate runs the scanner (and the cross-check when enabled) over body.
func (r *Runner) Validate(name string, body []byte) report.Report {
	start := time.Now()

	res := ics.ScanText(string(body))

	var extra []model.Diagnostic
	if r.cfg.CrossCheck {
		diags, err := ics.CrossCheck(body)
		if err != nil {
			appLog.Warn("cross-check skipped", "source", displayName(name), "reason", err.Error())
		}
		extra = diags
	}

	rep := report.New(displayName(name), res, extra)
	if !r.cfg.Suggestions {
		rep = rep.WithoutSuggestions()
	}

	appLog.Info("calendar validated",
		"run_id", rep.RunID,
		"source", rep.Source,
		"events", rep.EventCount,
		"warnings", len(rep.Warnings),
		"errors", len(rep.Errors),
		"valid", rep.Valid,
		"duration", time.Since(start),
	)
	return rep
}

func displayName(location string) string {
	if source.IsRemote(location) {
		return source.RedactURL(location)
	}
	return location
}
