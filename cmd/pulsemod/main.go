package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aditya1583/community-pulse-sub002/blocklist"
	"github.com/aditya1583/community-pulse-sub002/flagstore"
	"github.com/aditya1583/community-pulse-sub002/heuristic"
	"github.com/aditya1583/community-pulse-sub002/internal/dbutil"
	"github.com/aditya1583/community-pulse-sub002/pipeline"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "pulsemod",
		Usage:   "content moderation pipeline for community pulses",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "env",
			Usage:   "deployment environment; 'production' hard-codes fail-closed",
			Value:   "development",
			EnvVars: []string{"ENVIRONMENT", "NODE_ENV"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the moderation service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the HTTP API",
			Value:   ":8300",
			EnvVars: []string{"PULSEMOD_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":8301",
			EnvVars: []string{"PULSEMOD_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database for the remote blocklist table; empty disables it",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "max-db-connections",
			EnvVars: []string{"MAX_DB_CONNECTIONS"},
			Value:   40,
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis for the warn-flag review store; empty uses in-process memory",
			EnvVars: []string{"REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "blocklist-json",
			Usage:   "JSON array of {phrase, severity} used when the database blocklist is empty",
			EnvVars: []string{"BLOCKLIST_JSON"},
		},
		&cli.StringFlag{
			Name:    "lexicon-file",
			Usage:   "JSON file overriding the built-in heuristic lexicon",
			EnvVars: []string{"PULSEMOD_LEXICON_FILE"},
		},
		&cli.StringFlag{
			Name:    "openai-api-key",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "openai-host",
			EnvVars: []string{"OPENAI_HOST"},
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Value:   "gpt-4o-mini",
			EnvVars: []string{"OPENAI_MODEL"},
		},
		&cli.StringFlag{
			Name:    "perspective-api-key",
			Usage:   "enables the supplementary toxicity signal",
			EnvVars: []string{"PERSPECTIVE_API_KEY"},
		},
		&cli.BoolFlag{
			Name:    "fail-open",
			Usage:   "allow content through on classifier failure; ignored in production",
			EnvVars: []string{"PULSEMOD_FAIL_OPEN"},
		},
		&cli.BoolFlag{
			Name:    "allow-names",
			Usage:   "disable the self-identification detector",
			EnvVars: []string{"PULSEMOD_ALLOW_NAMES"},
		},
		&cli.BoolFlag{
			Name:    "allow-social-handles",
			Usage:   "disable the social-handle detector",
			EnvVars: []string{"PULSEMOD_ALLOW_SOCIAL_HANDLES"},
		},
		&cli.Float64Flag{
			Name:    "toxicity-threshold",
			Value:   0.7,
			EnvVars: []string{"PULSEMOD_TOXICITY_THRESHOLD"},
		},
		&cli.Float64Flag{
			Name:    "severe-toxicity-threshold",
			Value:   0.5,
			EnvVars: []string{"PULSEMOD_SEVERE_TOXICITY_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Value:   10 * time.Second,
			EnvVars: []string{"PULSEMOD_REQUEST_TIMEOUT"},
		},
		&cli.DurationFlag{
			Name:    "ai-timeout",
			Usage:   "per-attempt timeout for the policy classifier",
			Value:   3 * time.Second,
			EnvVars: []string{"PULSEMOD_AI_TIMEOUT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		// Enable OTLP HTTP exporter
		// For relevant environment variables:
		// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace#readme-environment-variables
		// At a minimum, you need to set
		// OTEL_EXPORTER_OTLP_ENDPOINT=http://localhost:4318
		if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
			slog.Info("setting up trace exporter", "endpoint", ep)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			exp, err := otlptracehttp.New(ctx)
			if err != nil {
				log.Fatal("failed to create trace exporter", "error", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := exp.Shutdown(ctx); err != nil {
					slog.Error("failed to shutdown trace exporter", "error", err)
				}
			}()

			tp := tracesdk.NewTracerProvider(
				tracesdk.WithBatcher(exp),
				tracesdk.WithResource(resource.NewWithAttributes(
					semconv.SchemaURL,
					semconv.ServiceNameKey.String("pulsemod"),
					attribute.String("env", os.Getenv("ENVIRONMENT")),         // DataDog
					attribute.String("environment", os.Getenv("ENVIRONMENT")), // Others
					attribute.Int64("ID", 1),
				)),
			)
			otel.SetTracerProvider(tp)
		}

		var primary blocklist.Store
		if dburl := cctx.String("database-url"); dburl != "" {
			db, err := dbutil.SetupDatabase(dburl, cctx.Int("max-db-connections"))
			if err != nil {
				return err
			}
			primary, err = blocklist.NewGormStore(db)
			if err != nil {
				return err
			}
		}

		var fallback blocklist.Store
		if raw := cctx.String("blocklist-json"); raw != "" {
			env, err := blocklist.NewEnvStore(raw)
			if err != nil {
				return fmt.Errorf("parsing blocklist JSON: %w", err)
			}
			fallback = env
		}
		if primary == nil && fallback == nil {
			logger.Warn("no blocklist configured, phrase gate will match nothing")
		}
		matcher := blocklist.NewMatcher(logger, primary, fallback)

		var flags flagstore.FlagStore
		if rurl := cctx.String("redis-url"); rurl != "" {
			rf, err := flagstore.NewRedisFlagStore(rurl)
			if err != nil {
				return fmt.Errorf("connecting to review flag store: %w", err)
			}
			flags = rf
		} else {
			flags = flagstore.NewMemFlagStore()
		}

		cfg := pipeline.Config{
			Production:              cctx.String("env") == "production",
			FailOpen:                cctx.Bool("fail-open"),
			OpenAIAPIKey:            cctx.String("openai-api-key"),
			OpenAIHost:              cctx.String("openai-host"),
			OpenAIModel:             cctx.String("openai-model"),
			PerspectiveAPIKey:       cctx.String("perspective-api-key"),
			ToxicityThreshold:       cctx.Float64("toxicity-threshold"),
			SevereToxicityThreshold: cctx.Float64("severe-toxicity-threshold"),
			AllowNames:              cctx.Bool("allow-names"),
			AllowSocialHandles:      cctx.Bool("allow-social-handles"),
			RequestTimeout:          cctx.Duration("request-timeout"),
			AITimeout:               cctx.Duration("ai-timeout"),
		}

		engine := pipeline.NewEngine(logger, cfg, matcher, flags)
		if path := cctx.String("lexicon-file"); path != "" {
			lex, err := heuristic.LoadLexiconJSON(path)
			if err != nil {
				return err
			}
			engine.Heuristic = heuristic.NewClassifier(logger, lex)
		}
		srv := NewServer(engine, matcher, logger)

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI(ctx, cctx.String("bind"))
	},
}
