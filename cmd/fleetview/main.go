package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/gocarina/gocsv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/lixenwraith/fleetview/app"
	"github.com/lixenwraith/fleetview/config"
	"github.com/lixenwraith/fleetview/core"
	"github.com/lixenwraith/fleetview/engine"
	"github.com/lixenwraith/fleetview/feed"
	"github.com/lixenwraith/fleetview/logging"
	"github.com/lixenwraith/fleetview/metrics"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "configuration file (yaml, toml or json)",
	EnvVars: []string{config.EnvPrefix + "_CONFIG"},
}

var viewFlag = &cli.StringFlag{
	Name:  "view",
	Usage: "initial view: globe, brain, plan or charts",
}

func main() {
	// Ensure the terminal is restored even if the dashboard crashes
	defer func() {
		core.HandleCrash(recover())
	}()

	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fleetview: %v\n", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "fleetview",
		Usage: "maritime cargo dashboard for the terminal",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "open the interactive dashboard",
				Flags: []cli.Flag{
					configFlag,
					viewFlag,
					&cli.StringFlag{Name: "color", Usage: "color mode: auto, truecolor, 256"},
					&cli.StringFlag{Name: "metrics-addr", Usage: "serve prometheus metrics on this address"},
					&cli.BoolFlag{Name: "debug", Usage: "write debug logs to the log directory"},
				},
				Action: runDashboard,
			},
			{
				Name:  "snapshot",
				Usage: "render one frame to stdout as plain text",
				Flags: []cli.Flag{
					configFlag,
					viewFlag,
					&cli.IntFlag{Name: "width", Value: 120},
					&cli.IntFlag{Name: "height", Value: 40},
				},
				Action: snapshot,
			},
			{
				Name:   "ports",
				Usage:  "list the built-in port table as CSV",
				Action: listPorts,
			},
		},
		DefaultCommand: "run",
	}
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("view") {
		cfg.View = c.String("view")
	}
	if c.IsSet("color") {
		cfg.Render.Color = c.String("color")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if _, err := app.ParseView(cfg.View); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyColorMode limits tcell to 256 colors when asked; auto leaves detection to terminfo
func applyColorMode(mode string) error {
	switch mode {
	case "", "auto", "truecolor", "true", "24bit":
		return nil
	case "256":
		return os.Setenv("TCELL_TRUECOLOR", "disable")
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}
}

func runDashboard(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyColorMode(cfg.Render.Color); err != nil {
		return err
	}

	log, closer, err := logging.Setup(logging.Options{
		Dir:       cfg.Logs.Dir,
		MaxSizeMB: cfg.Logs.MaxSizeMB,
		Debug:     cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	dash, err := app.New(cfg, screen, engine.NewTimeProvider(), collector, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return dash.Run(ctx)
}

func snapshot(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	text, err := app.Snapshot(cfg, cfg.View, c.Int("width"), c.Int("height"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.App.Writer, text)
	return err
}

func listPorts(c *cli.Context) error {
	ports, err := feed.DefaultPorts()
	if err != nil {
		return err
	}
	return gocsv.Marshal(feed.SortedByName(ports), c.App.Writer)
}
