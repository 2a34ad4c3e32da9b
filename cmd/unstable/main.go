package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/magefree/unstable-students/internal/config"
	"github.com/magefree/unstable-students/internal/game"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/magefree/unstable-students/internal/gamelog"
	"github.com/magefree/unstable-students/internal/store"
	"github.com/magefree/unstable-students/internal/store/postgres"
	"github.com/magefree/unstable-students/internal/store/sqlite"
	"github.com/magefree/unstable-students/internal/template"
	"github.com/magefree/unstable-students/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev" // set via ldflags during build

const (
	menuNew  = "New game"
	menuLoad = "Load game"
	menuExit = "Exit"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Unstable Students",
		zap.String("version", version),
		zap.String("config", configPath),
		zap.String("deck", cfg.Game.DeckPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}

	err = a.run(ctx, flags.Arg(0))
	err = multierr.Append(err, a.close())
	if err != nil {
		logger.Error("unstable students stopped", zap.Error(err))
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
	logger.Info("unstable students stopped")
}

type app struct {
	cfg      *config.Config
	fs       afero.Fs
	term     *ui.Terminal
	bus      *rules.EventBus
	registry store.Registry
	saver    *game.Saver
	actions  *gamelog.Logger
	logger   *zap.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Game.SavesDir, 0o755); err != nil {
		return nil, gameerr.IO("cmd.saves", cfg.Game.SavesDir, err)
	}

	registry, err := openRegistry(ctx, fs, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	bus := rules.NewEventBus()
	actions, err := gamelog.Open(fs, cfg.Game.LogFile)
	if err != nil {
		return nil, multierr.Append(err, registry.Close())
	}
	actions.Attach(bus)

	ui.SetColor(cfg.UI.Color)
	return &app{
		cfg:      cfg,
		fs:       fs,
		term:     ui.NewTerminal(),
		bus:      bus,
		registry: registry,
		saver:    game.NewSaver(fs, cfg.Game.SavesDir, logger.Named("saves")),
		actions:  actions,
		logger:   logger,
	}, nil
}

// openRegistry opens the saved game registry selected by cfg.Driver.
func openRegistry(ctx context.Context, fs afero.Fs, cfg config.StoreConfig, logger *zap.Logger) (store.Registry, error) {
	switch cfg.Driver {
	case store.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return nil, gameerr.IO("cmd.registry", dir, err)
			}
		}
		s, err := sqlite.Open(cfg.SQLitePath, logger.Named("sqlite"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN, logger.Named("postgres"))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, store.ErrUnknownDriver(cfg.Driver)
	}
}

func (a *app) close() error {
	return multierr.Combine(a.actions.Close(), a.registry.Close())
}

func (a *app) deps() game.Deps {
	return game.Deps{
		Prompter:  a.term,
		Presenter: a.term,
		Saver:     a.saver,
		Registry:  a.registry,
		Bus:       a.bus,
		Logger:    a.logger.Named("game"),
		Rounds:    []game.RoundObserver{a.actions},
	}
}

// run shows the main menu until the player exits. A save named on the
// command line is loaded straight away.
func (a *app) run(ctx context.Context, load string) error {
	if a.cfg.UI.Banner {
		a.term.Banner()
	}
	if load != "" {
		if err := a.play(ctx, load); err != nil {
			return err
		}
	}

	for ctx.Err() == nil {
		choice, err := pterm.DefaultInteractiveSelect.
			WithDefaultText("Main menu").
			WithOptions([]string{menuNew, menuLoad, menuExit}).
			Show()
		if err != nil {
			return fmt.Errorf("main menu: %w", err)
		}

		switch choice {
		case menuNew:
			err = a.play(ctx, "")
		case menuLoad:
			var name string
			name, err = a.chooseSave(ctx)
			if err == nil && name != "" {
				err = a.play(ctx, name)
			}
		case menuExit:
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// chooseSave lists the registered games and returns the one picked, or ""
// when there is nothing to load.
func (a *app) chooseSave(ctx context.Context) (string, error) {
	entries, err := a.registry.List(ctx)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		ok, err := a.saver.Exists(e.Name)
		if err != nil {
			return "", err
		}
		if ok {
			names = append(names, e.Name)
		}
	}

	if len(names) == 0 {
		name, err := a.term.Text(ctx, "Name of the game to load", game.ValidateGameName)
		if err != nil {
			return "", err
		}
		ok, err := a.saver.Exists(name)
		if err != nil {
			return "", err
		}
		if !ok {
			a.term.Message(interact.LevelWarning, fmt.Sprintf("No saved game named %q", name))
			return "", nil
		}
		return name, nil
	}

	name, err := pterm.DefaultInteractiveSelect.
		WithDefaultText("Saved games").
		WithOptions(names).
		Show()
	if err != nil {
		return "", fmt.Errorf("choose save: %w", err)
	}
	return name, nil
}

// play runs one session to the end. Any error it returns stops the program.
func (a *app) play(ctx context.Context, load string) (err error) {
	var s *game.Session
	if load == "" {
		templates, lerr := template.Load(a.fs, a.cfg.Game.DeckPath)
		if lerr != nil {
			return lerr
		}
		s, err = game.NewSession(ctx, a.deps(), templates)
	} else {
		s, err = game.LoadSession(ctx, a.deps(), load)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	res, err := s.Run(ctx)
	if err != nil {
		return err
	}
	switch {
	case res.Winner != "":
		pterm.Success.Printfln("%s won after %d rounds", res.Winner, res.Rounds)
	case res.Exited:
		pterm.Info.Printfln("Game %q left at round %d", s.State().Name, res.Rounds)
	}
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
