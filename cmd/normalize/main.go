package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/maltedev/ekatra-normalizer/internal/config"
	"github.com/maltedev/ekatra-normalizer/internal/engine"
	"github.com/maltedev/ekatra-normalizer/internal/fields"
)

func main() {
	mode := flag.String("mode", "flexible", "flexible, smart, sync or validate")
	file := flag.String("file", "", "read the payload from a file instead of stdin")
	flag.Parse()

	_ = godotenv.Load()

	// Logs go to stderr so stdout stays valid JSON
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ok, err := run(*mode, *file, cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("normalize failed", "error", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(mode, file string, cfg *config.Config, logger *slog.Logger, out io.Writer) (bool, error) {
	var in io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return false, fmt.Errorf("failed to open payload: %w", err)
		}
		defer f.Close()
		in = f
	}

	body, err := io.ReadAll(in)
	if err != nil {
		return false, fmt.Errorf("failed to read payload: %w", err)
	}
	raw, err := fields.Decode(body)
	if err != nil {
		return false, err
	}

	eng := engine.New(engine.Options{
		DefaultCurrency:     cfg.Transform.DefaultCurrency,
		SupportedCurrencies: cfg.Transform.SupportedCurrencies,
		SDKVersion:          cfg.Transform.SDKVersion,
		Logger:              logger,
	})

	var (
		result any
		ok     bool
	)
	if mode == "validate" {
		res := eng.Validate(raw)
		result, ok = res, res.Valid
	} else {
		m, known := engine.ParseMode(mode)
		if !known {
			return false, fmt.Errorf("unknown mode %q", mode)
		}
		env := eng.Transform(m, raw)
		result, ok = env, env.OK()
	}

	data, err := fields.MarshalIndent(result)
	if err != nil {
		return false, fmt.Errorf("failed to encode result: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return false, fmt.Errorf("failed to write result: %w", err)
	}
	return ok, nil
}
