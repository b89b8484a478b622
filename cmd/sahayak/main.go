package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/api"
	"github.com/dukaan-dev/sahayak/internal/config"
	"github.com/dukaan-dev/sahayak/internal/corpus"
	"github.com/dukaan-dev/sahayak/internal/dispatch"
	"github.com/dukaan-dev/sahayak/internal/fuzzy"
	"github.com/dukaan-dev/sahayak/internal/interpreter"
	"github.com/dukaan-dev/sahayak/internal/knowledge"
	"github.com/dukaan-dev/sahayak/internal/router"
	"github.com/dukaan-dev/sahayak/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sahayak",
	Short: "Sahayak - talk to your POS in plain language",
	Long: `Sahayak is an offline assistant for small retail shops. It turns
plain-language requests like "add 2 milk" or "sales report for last week"
into billing, inventory and reporting actions. No network, no cloud; one
sqlite file holds everything.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.sahayak/config.yaml)")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles everything a subcommand needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	service *api.Service
}

// Close releases the app's resources.
func (a *app) Close() {
	a.log.Sync()
	a.store.Close()
}

// bootstrap loads config, opens the store and wires the interpretation
// pipeline.
func bootstrap() (*app, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromHome()
	}
	if err != nil {
		return nil, err
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}

	resolver := alias.NewResolver(st, log)

	matcher := fuzzy.NewMatcher(resolver, log, cfg.MatcherOptions()...)
	examples := corpus.Default()
	learned, err := corpus.FromStore(st)
	if err != nil {
		log.Warn("could not load learned examples", zap.Error(err))
	} else {
		examples = append(examples, learned...)
	}
	if cfg.CorpusPath != "" {
		extra, err := corpus.Load(cfg.CorpusPath)
		if err != nil {
			st.Close()
			return nil, err
		}
		examples = append(examples, extra...)
	}
	matcher.Ingest(examples)

	responder := knowledge.NewResponder(log)
	faqs, err := st.ListFAQEntries()
	if err != nil || len(faqs) == 0 {
		faqs = knowledge.Default()
	}
	responder.Ingest(faqs)

	interp := interpreter.New(router.New(resolver), matcher, st, log)
	disp := dispatch.New(st, resolver, responder, log)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		service: api.NewService(interp, disp, responder, log),
	}, nil
}

// buildLogger creates the process logger at the configured level,
// writing to stderr so command output stays clean.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
