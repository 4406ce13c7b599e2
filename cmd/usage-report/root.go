package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"utility_dashboard/internal/config"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/store"
)

var (
	cfgFile    string
	startDate  string
	endDate    string
	grainName  string
	hasHotTub  bool
	hotTubType string
	hasEV      bool
	hasPump    bool
)

// now is replaced in tests.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "usage-report",
	Short: "Generate household electricity and hot water cost reports",
	Long: `usage-report produces the same synthetic usage and cost tables as the
dashboard server and prints them, summarizes them, renders charts or
publishes the monthly overview to MQTT.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "first day of the range, YYYY-MM-DD (default: first day of last full month)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "last day of the range, YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().StringVar(&grainName, "grain", string(model.GrainDaily), "aggregation grain: daily, weekly or monthly")
	rootCmd.PersistentFlags().BoolVar(&hasHotTub, "hot-tub", false, "household has a hot tub")
	rootCmd.PersistentFlags().StringVar(&hotTubType, "hot-tub-type", string(model.HotTubGeothermal), "hot tub type: geothermal or electric")
	rootCmd.PersistentFlags().BoolVar(&hasEV, "ev", false, "household has an electric vehicle")
	rootCmd.PersistentFlags().BoolVar(&hasPump, "heat-pump", false, "household has a heat pump")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath
}

// loadConfig loads and validates the configuration file
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// selection holds the range, preferences and grain given on the command line.
type selection struct {
	Range model.DateRange
	Prefs model.Preferences
	Grain model.Grain
}

func parseSelection(today time.Time) (selection, error) {
	rng := session.DefaultRange(today)
	if startDate != "" {
		t, err := time.Parse(model.DateLayout, startDate)
		if err != nil {
			return selection{}, fmt.Errorf("parsing --start: %w", err)
		}
		rng.Start = t
	}
	if endDate != "" {
		t, err := time.Parse(model.DateLayout, endDate)
		if err != nil {
			return selection{}, fmt.Errorf("parsing --end: %w", err)
		}
		rng.End = t
	}

	grain, err := model.ParseGrain(grainName)
	if err != nil {
		return selection{}, err
	}

	prefs := model.Preferences{
		HasHotTub:   hasHotTub,
		HotTubType:  model.HotTubType(hotTubType),
		HasEV:       hasEV,
		HasHeatPump: hasPump,
	}
	if err := prefs.Validate(); err != nil {
		return selection{}, err
	}

	return selection{Range: rng, Prefs: prefs.Normalize(), Grain: grain}, nil
}

// openSession builds a session for the selection with events discarded.
func openSession(cfg *config.Config, logger *logging.Logger, sel selection) (*session.Session, error) {
	gen := generator.New(generator.NewRand(cfg.Generator.Seed), nil, cfg.GeneratorOptions()...)
	fallback := generator.New(generator.NewRand(cfg.Generator.Seed+1), nil, cfg.GeneratorOptions()...)

	s := session.New(gen, store.New(), nil,
		session.WithClock(now),
		session.WithLogger(logger),
		session.WithFallbackGenerator(fallback),
	)
	if err := s.SetPreferences(sel.Prefs); err != nil {
		return nil, err
	}
	if err := s.SetGrain(sel.Grain); err != nil {
		return nil, err
	}
	if err := s.SetRange(sel.Range); err != nil {
		return nil, err
	}
	return s, nil
}

// setup loads the configuration, parses the flags and opens a session.
func setup() (*config.Config, *logging.Logger, *session.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.Logger()

	sel, err := parseSelection(now())
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := openSession(cfg, logger, sel)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, s, nil
}
