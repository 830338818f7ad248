// Command nychickens posts a random report from the ten years' worth of
// official reports about decapitated animals discovered in New York City
// public parks.
//
// Data: http://uselesspress.org/things/decapitated-animals-dataset/
package main

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/hugovk/NYChickens/pkg/bot"
	"github.com/hugovk/NYChickens/pkg/config"
	"github.com/hugovk/NYChickens/pkg/logging"
	"github.com/hugovk/NYChickens/pkg/publisher"
)

type Options struct {
	Infile  string `short:"i" long:"infile" description:"Input data file"`
	YAML    string `short:"y" long:"yaml" description:"YAML file location containing Twitter keys and secrets"`
	NoWeb   bool   `long:"no-web" description:"Don't open a web browser to show the posted tweet (also -nw)"`
	Chance  int    `short:"c" long:"chance" description:"Denominator for the chance of posting this time"`
	Test    bool   `short:"x" long:"test" description:"Test mode: go through the motions but don't post anything"`
	API     string `long:"api" choice:"v1" choice:"v2" description:"Twitter API version; v2 cannot attach coordinates"`
	Seed    uint64 `long:"seed" description:"Seed for the random source, for reproducible runs"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

type app struct {
	stdout        io.Writer
	stderr        io.Writer
	authenticator func(api string, logger *log.Logger) publisher.Authenticator
	browser       publisher.Browser
}

func defaultAuthenticator(api string, logger *log.Logger) publisher.Authenticator {
	if api == config.APIv2 {
		return publisher.NewTwitterV2(publisher.DefaultV2Host, nil, logger)
	}
	return publisher.NewTwitterV1(nil)
}

// normalizeArgs rewrites the legacy two-letter -nw flag, which go-flags would
// read as -n -w.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == "-nw" {
			arg = "--no-web"
		}
		out[i] = arg
	}
	return out
}

// envFlags names the flag that overrides each environment variable.
var envFlags = map[string]string{
	config.EnvInfile: "infile",
	config.EnvYAML:   "yaml",
	config.EnvChance: "chance",
	config.EnvAPI:    "api",
}

func isSet(parser *flags.Parser, long string) bool {
	option := parser.FindOptionByLongName(long)
	return option != nil && option.IsSet()
}

// applyConfig fills every option the command line left unset from conf. It
// fails only on invalid environment values that no flag overrides.
func applyConfig(parser *flags.Parser, opts *Options, conf *config.Config, confErr error) error {
	if confErr != nil {
		var invalid config.EnvErrors
		if !errors.As(confErr, &invalid) {
			return confErr
		}
		for key, err := range invalid {
			if !isSet(parser, envFlags[key]) {
				return err
			}
		}
	}

	if !isSet(parser, "infile") {
		opts.Infile = conf.Infile
	}
	if !isSet(parser, "yaml") {
		opts.YAML = conf.YAMLPath
	}
	if !isSet(parser, "chance") {
		opts.Chance = conf.Chance
	}
	if !isSet(parser, "api") {
		opts.API = conf.API
	}
	return nil
}

func (a *app) run(ctx context.Context, args []string) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "nychickens"
	parser.ShortDescription = "Post a random NYC decapitated-animal report"

	if _, err := parser.ParseArgs(normalizeArgs(args)); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			_, _ = io.WriteString(a.stdout, fe.Message+"\n")
			return 0
		}
		_, _ = io.WriteString(a.stderr, err.Error()+"\n")
		return 1
	}

	conf, confErr := config.LoadConfig(false)
	if err := applyConfig(parser, &opts, conf, confErr); err != nil {
		logging.New(a.stderr, false).Error("Invalid configuration", "error", err)
		return 1
	}

	base := logging.New(a.stderr, opts.Verbose)
	factory := logging.NewFactory(base)
	factory.LoadLogLevelsFromEnv()
	logger := factory.ForComponent("nychickens")

	if conf.Schedule != "" {
		desc, err := config.DescribeSchedule(conf.Schedule, opts.Chance)
		if err != nil {
			logger.Warn("Could not describe schedule", "error", err)
		} else {
			logger.Debug("Schedule", "description", desc)
		}
	}

	seed := rand.Uint64()
	if isSet(parser, "seed") {
		seed = opts.Seed
	}
	logger.Debug("Starting run", "infile", opts.Infile, "yaml", opts.YAML, "chance", opts.Chance, "api", opts.API, "seed", seed)

	result, err := bot.Run(ctx, bot.Config{
		Infile:   opts.Infile,
		YAMLPath: opts.YAML,
		Chance:   opts.Chance,
		NoWeb:    opts.NoWeb,
		DryRun:   opts.Test,
	}, bot.Deps{
		Random:        rand.New(rand.NewPCG(seed, seed)),
		Authenticator: a.authenticator(opts.API, factory.ForClient("twitter")),
		Browser:       a.browser,
		Out:           a.stdout,
		Logs:          factory,
	})
	if errors.Is(err, bot.ErrSkipped) {
		logger.Info("No post this time", "chance", opts.Chance)
		return 1
	}
	if err != nil {
		factory.WithError(logger, err).Error("Run failed")
		return 1
	}
	if result != nil && !result.DryRun {
		logger.Debug("Done", "url", result.URL)
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		authenticator: defaultAuthenticator,
		browser:       publisher.SystemBrowser{},
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
