package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdhtml/internal/build"
	"git.home.luguber.info/inful/mdhtml/internal/config"
	"git.home.luguber.info/inful/mdhtml/internal/server"
	"git.home.luguber.info/inful/mdhtml/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"mdhtml.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Input  string `arg:"" help:"Markdown file or directory to render" default:"."`
		Output string `short:"o" help:"Output directory (overrides config)"`
	} `cmd:"" help:"Render Markdown to HTML files"`

	Serve struct {
		Source string `arg:"" help:"Directory to serve rendered Markdown from" default:"."`
		Listen string `short:"l" help:"Listen address (overrides config)"`
	} `cmd:"" help:"Serve rendered Markdown over HTTP with live re-rendering"`

	Watch struct {
		Input  string `arg:"" help:"Directory to watch and rebuild" default:"."`
		Output string `short:"o" help:"Output directory (overrides config)"`
	} `cmd:"" help:"Rebuild output whenever sources change"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build", "build <input>":
		cfg := loadConfig()
		if CLI.Build.Output != "" {
			cfg.Output.Directory = CLI.Build.Output
		}
		runBuild(cfg, CLI.Build.Input)

	case "serve", "serve <source>":
		cfg := loadConfig()
		if CLI.Serve.Listen != "" {
			cfg.Server.Listen = CLI.Serve.Listen
		}
		runServe(cfg, CLI.Serve.Source)

	case "watch", "watch <input>":
		cfg := loadConfig()
		if CLI.Watch.Output != "" {
			cfg.Output.Directory = CLI.Watch.Output
		}
		runWatch(cfg, CLI.Watch.Input)

	case "init":
		runInit(CLI.Config, CLI.Init.Force)

	default:
		slog.Error("Unknown command", "command", ctx.Command())
		os.Exit(1)
	}
}

// loadConfig reads the configured file, falling back to built-in defaults
// when the default config file does not exist.
func loadConfig() *config.Config {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) && CLI.Config == "mdhtml.yaml" {
		return config.Default()
	}
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func runBuild(cfg *config.Config, input string) {
	b, err := build.New(cfg)
	if err != nil {
		slog.Error("Failed to configure builder", "error", err)
		os.Exit(1)
	}
	if _, err := b.Run(context.Background(), input); err != nil {
		slog.Error("Build failed", "error", err)
		os.Exit(1)
	}
}

func runServe(cfg *config.Config, source string) {
	s, err := server.New(cfg, source)
	if err != nil {
		slog.Error("Failed to configure server", "error", err)
		os.Exit(1)
	}
	if err := s.Start(signalContext()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func runWatch(cfg *config.Config, input string) {
	b, err := build.New(cfg)
	if err != nil {
		slog.Error("Failed to configure builder", "error", err)
		os.Exit(1)
	}
	w, err := watch.New(b, input)
	if err != nil {
		slog.Error("Failed to configure watcher", "error", err)
		os.Exit(1)
	}
	if err := w.Run(signalContext()); err != nil {
		slog.Error("Watch failed", "error", err)
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down")
		cancel()
	}()
	return ctx
}
