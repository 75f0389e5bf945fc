package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/spikeekips/periodic"
	"github.com/spikeekips/periodic/logging"
)

var (
	logs *logging.Logging
	log  *zerolog.Logger
)

func main() {
	var cli struct {
		Run       runCommand `cmd:"" help:"run timer"`
		LogLevel  string     `name:"log-level" default:"info" help:"log level"`
		LogFormat string     `name:"log-format" default:"terminal" enum:"terminal,json" help:"log format"`
		LogOut    []string   `name:"log-out" default:"stderr" help:"log output: {stdout, stderr, <file>}"`
	}

	kctx := kong.Parse(&cli)

	level, err := zerolog.ParseLevel(cli.LogLevel)
	kctx.FatalIfErrorf(err)

	out, err := logOutput(cli.LogOut)
	kctx.FatalIfErrorf(err)

	logs = logging.Setup(out, level, cli.LogFormat, false)
	log = logging.NewLogging(func(lctx zerolog.Context) zerolog.Context {
		return lctx.Str("module", "main")
	}).SetLogging(logs).Log()

	log.Info().Str("command", kctx.Command()).Msg("start command")

	err = func() error {
		defer log.Info().Msg("stopped")

		return kctx.Run()
	}()
	if err != nil {
		log.Error().Err(err).Msg("stopped by error")
	}

	kctx.FatalIfErrorf(err)
}

type runCommand struct {
	Config   string        `name:"config" help:"config file (yaml)" type:"existingfile" optional:""`
	Interval time.Duration `name:"interval" default:"1s" help:"tick interval"`
	Policy   string        `name:"policy" default:"schedule-next-available" enum:"schedule-next-available,invoke-immediately" help:"missed interval policy"`
	Count    int           `name:"count" default:"10" help:"stop after count ticks; 0 runs until interrupted"`
}

type runConfig struct {
	Interval string `yaml:"interval"`
	Policy   string `yaml:"policy"`
	Count    *int   `yaml:"count"`
}

func (cmd *runCommand) Run() error {
	if len(cmd.Config) > 0 {
		if err := cmd.loadConfig(); err != nil {
			return err
		}
	}

	policy, err := policyByName(cmd.Policy)
	if err != nil {
		return err
	}

	donech := make(chan struct{}, 1)

	var ticked int64

	timer := periodic.New(func() {
		n := atomic.AddInt64(&ticked, 1)
		log.Info().Int64("tick", n).Msg("tick")

		if cmd.Count > 0 && n >= int64(cmd.Count) {
			select {
			case donech <- struct{}{}:
			default:
			}
		}
	}, cmd.Interval).SetPolicy(policy)

	timer.SetLogging(logs)

	if err := timer.Start(context.Background()); err != nil {
		return err
	}

	log.Info().
		Stringer("id", timer.ID()).
		Dur("interval", cmd.Interval).
		Str("policy", cmd.Policy).
		Msg("timer started")

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigch)

	select {
	case <-donech:
	case sig := <-sigch:
		log.Info().Str("signal", sig.String()).Msg("interrupted")
	}

	return timer.Stop()
}

func (cmd *runCommand) loadConfig() error {
	b, err := os.ReadFile(cmd.Config)
	if err != nil {
		return errors.Wrapf(err, "failed to read config, %q", cmd.Config)
	}

	var conf runConfig
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return errors.Wrapf(err, "failed to load config, %q", cmd.Config)
	}

	if len(conf.Interval) > 0 {
		i, err := time.ParseDuration(conf.Interval)
		if err != nil {
			return errors.Wrapf(err, "invalid interval in config, %q", conf.Interval)
		}

		cmd.Interval = i
	}

	if len(conf.Policy) > 0 {
		cmd.Policy = conf.Policy
	}

	if conf.Count != nil {
		cmd.Count = *conf.Count
	}

	return nil
}

func logOutput(outs []string) (io.Writer, error) {
	if len(outs) < 1 {
		return os.Stderr, nil
	}

	ws := make([]io.Writer, len(outs))

	for i, o := range outs {
		switch o {
		case "stdout":
			ws[i] = os.Stdout
		case "stderr":
			ws[i] = os.Stderr
		default:
			w, err := logging.Output(o)
			if err != nil {
				return nil, err
			}

			ws[i] = w
		}
	}

	if len(ws) == 1 {
		return ws[0], nil
	}

	return zerolog.MultiLevelWriter(ws...), nil
}

func policyByName(s string) (periodic.IntervalPolicy, error) {
	switch s {
	case "schedule-next-available":
		return periodic.ScheduleNextAvailable{}, nil
	case "invoke-immediately":
		return periodic.InvokeImmediately{}, nil
	default:
		return nil, errors.Errorf("unknown policy, %q", s)
	}
}
