package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/meghashyamc/lasercavity/app"
	"github.com/meghashyamc/lasercavity/config"
	"github.com/meghashyamc/lasercavity/logger"
	"github.com/spf13/pflag"
)

// parseFlags returns the parsed flag set and the requested config environment.
func parseFlags(name string, args []string, handling pflag.ErrorHandling) (*pflag.FlagSet, string, error) {
	flags := pflag.NewFlagSet(name, handling)
	env := flags.String("env", "", "config environment (reads config/config.<env>.yaml)")
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, "", err
	}
	return flags, *env, nil
}

func main() {
	flags, env, err := parseFlags(os.Args[0], os.Args[1:], pflag.ContinueOnError)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse flags: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
		os.Exit(1)
	}
	if err := cfg.BindFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flags: %s\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		slog.Warn("falling back to info logging", "err", err)
	}

	if err := app.New(cfg, logger.NewWithOptions(os.Stderr, level), os.Stdout).Run(); err != nil {
		slog.Error("error tracing scene", "err", err)
		os.Exit(1)
	}
}
