// Package bot runs one scheduled invocation: roll the gate, load credentials,
// pick and render a report, publish it.
package bot

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/hugovk/NYChickens/pkg/credentials"
	"github.com/hugovk/NYChickens/pkg/gate"
	"github.com/hugovk/NYChickens/pkg/logging"
	"github.com/hugovk/NYChickens/pkg/publisher"
	"github.com/hugovk/NYChickens/pkg/report"
)

// ErrSkipped is returned when the gate declines this run.
var ErrSkipped = errors.New("no post this time")

// Config is the parsed command line for one run.
type Config struct {
	Infile   string
	YAMLPath string
	Chance   int
	NoWeb    bool
	DryRun   bool
}

// Random is shared by the gate and the report selector.
type Random interface {
	IntN(n int) int
}

type Deps struct {
	Random        Random
	Authenticator publisher.Authenticator
	Browser       publisher.Browser
	Out           io.Writer
	Logs          *logging.Factory
}

// Run executes the whole pipeline once. Every failure is returned as is;
// nothing is retried.
func Run(ctx context.Context, cfg Config, deps Deps) (*publisher.Result, error) {
	logger := deps.Logs.ForComponent("bot")

	proceed, err := gate.Roll(deps.Random, cfg.Chance)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return nil, ErrSkipped
	}
	deps.Logs.WithOperation(logger, "gate").Debug("Gate passed", "chance", cfg.Chance)

	creds, err := credentials.Load(cfg.YAMLPath)
	if err != nil {
		return nil, err
	}
	deps.Logs.WithOperation(logger, "credentials").Debug("Credentials loaded", "path", cfg.YAMLPath)

	datasetLogger := deps.Logs.WithOperation(logger, "dataset")
	reports, err := report.LoadDataset(cfg.Infile)
	if err != nil {
		return nil, err
	}
	datasetLogger.Debug("Dataset loaded", "path", cfg.Infile, "reports", len(reports))

	chosen, err := report.Choose(deps.Random, reports)
	if err != nil {
		return nil, errors.Wrapf(err, "choosing from %s", cfg.Infile)
	}

	msg := report.Compose(chosen)
	datasetLogger.Debug("Report chosen", "animal", chosen.Animal, "park", chosen.ParkOrFacility, "lat", msg.Coordinates.Lat, "lng", msg.Coordinates.Lng)

	pub := publisher.New(deps.Authenticator, deps.Browser, publisher.Options{
		DryRun: cfg.DryRun,
		NoWeb:  cfg.NoWeb,
		Out:    deps.Out,
	}, deps.Logs.WithOperation(deps.Logs.ForComponent("publisher"), "publish"))

	return pub.Publish(ctx, msg, *creds)
}
