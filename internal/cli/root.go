package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/iqama-times/internal/config"
	"github.com/smokyabdulrahman/iqama-times/internal/display"
	"github.com/smokyabdulrahman/iqama-times/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagCity        string
	FlagCountry     string
	FlagLatitude    float64
	FlagLongitude   float64
	FlagTimezone    string
	FlagMethod      int
	FlagSchool      int
	FlagRules       string
	FlagHijriOffset int
	FlagJSON        bool
	FlagCacheDir    string
	FlagNoCache     bool
	FlagTimeFormat  string
	FlagNumerals    string
	FlagLogLevel    string
)

// loadedConfig and loadedEnv hold what PersistentPreRunE read.
// Available to all subcommand handlers.
var (
	loadedConfig *config.Config
	loadedEnv    config.Env
	logger       = zerolog.Nop()
)

// NewRootCmd creates the root command for the iqama-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iqama-times",
		Short: "Masjid Athan and Iqama schedules",
		Long: "Builds Athan and Iqama schedules for a masjid from its Iqama rules,\n" +
			"using the Al Adhan API for Athan times.",
		Version:           version,
		PersistentPreRunE: setup,
		// Default action: show today's schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone of the location, e.g. America/Chicago")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")
	pf.StringVar(&FlagRules, "rules", "", "Iqama rules document (JSON or YAML)")
	pf.IntVar(&FlagHijriOffset, "hijri-offset", 0, "Shift the Hijri calendar by whole days (-3 to 3)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/iqama-times/)")
	pf.BoolVar(&FlagNoCache, "no-cache", false, "Always fetch Athan times from the API")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagNumerals, "numerals", "", "Digits: latin or arabic (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn or error")

	// Register subcommands.
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// setup reads the environment, installs the logger and loads the config
// file named by IQAMA_CONFIG or the default path.
func setup(cmd *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	loadedEnv = env

	level := env.LogLevel
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
		level = FlagLogLevel
	}
	logger = logging.Setup(level, cmd.ErrOrStderr())
	display.SetEnabled(display.Detect(cmd.OutOrStdout()))

	if err := checkFlags(cmd); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	env.Apply(cfg)
	loadedConfig = cfg

	logger.Debug().Str("config", path).Msg("configuration loaded")
	return nil
}

// flagKeys pairs flags with the config keys whose validation they share.
var flagKeys = [][2]string{
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"timezone", "timezone"},
	{"method", "method"},
	{"school", "school"},
	{"hijri-offset", "hijri_offset"},
	{"time-format", "time_format"},
	{"numerals", "numerals"},
}

// checkFlags runs explicitly set flag values through the same checks as
// `config set`.
func checkFlags(cmd *cobra.Command) error {
	var scratch config.Config
	for _, fk := range flagKeys {
		f := lookupFlag(cmd, fk[0])
		if f == nil || !f.Changed {
			continue
		}
		if err := scratch.Set(fk[1], f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", fk[0], err)
		}
	}
	return nil
}

// configPath honors IQAMA_CONFIG before the default location.
func configPath() (string, error) {
	if loadedEnv.ConfigFile != "" {
		return loadedEnv.ConfigFile, nil
	}
	return config.Path()
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("iqama-times %s\n", version)
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	} else if cfg.Method == nil {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "school") {
		cfg.School = &FlagSchool
	} else if cfg.School == nil {
		cfg.School = defaults.School
	}
	// A nil offset defers to the rules document.
	if flagWasSet(flags, root, "hijri-offset") {
		cfg.HijriOffset = &FlagHijriOffset
	}
	if flagWasSet(flags, root, "rules") {
		cfg.RulesFile = FlagRules
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if flagWasSet(flags, root, "numerals") {
		cfg.Numerals = FlagNumerals
	}
	if cfg.Numerals == "" {
		cfg.Numerals = defaults.Numerals
	}

	return cfg
}

// noCache reports whether caching is disabled by flag or environment.
func noCache(cmd *cobra.Command) bool {
	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "no-cache") {
		return FlagNoCache
	}
	return loadedEnv.NoCache
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
