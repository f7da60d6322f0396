package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppiankov/ethnia/internal/model"
)

// Version is the release string printed by the version command
const Version = "ethnia v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logger    = zap.NewNop()
	appConfig = model.DefaultConfig()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ethnia",
	Short: "Ethnia - structured records from an African peoples corpus",
	Long: `Ethnia parses hand-authored documents about African countries, peoples
and language families into typed records.

Each document is parsed on its own: identifiers, header fields, known
sections and embedded references are extracted syntactically. Unknown
sections are kept verbatim. Problems are reported as errors or warnings
attached to the result, never as crashes.

Checking that references resolve is a separate corpus-wide step (validate).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Ethnia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	// Assigned here rather than in the literal: loadConfig reads rootCmd's
	// flags, which would otherwise form an initialization cycle
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	}

	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ethnia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("root", "", "corpus root directory")
	rootCmd.PersistentFlags().Int("workers", 0, "number of parse workers (default: number of CPUs)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the per-identifier result cache")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("corpus.root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".ethnia"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// ETHNIA_CORPUS_ROOT overrides corpus.root
	viper.SetEnvPrefix("ETHNIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that environment variables
// reach Unmarshal and unset flags fall back to the defaults
func setDefaults(d *model.Config) {
	viper.SetDefault("corpus.root", d.Corpus.Root)
	viper.SetDefault("corpus.country_dir", d.Corpus.CountryDir)
	viper.SetDefault("corpus.people_dir", d.Corpus.PeopleDir)
	viper.SetDefault("corpus.family_dir", d.Corpus.FamilyDir)
	viper.SetDefault("corpus.extension", d.Corpus.Extension)
	viper.SetDefault("corpus.include", d.Corpus.Include)
	viper.SetDefault("corpus.exclude", d.Corpus.Exclude)
	viper.SetDefault("concurrency.workers", d.Concurrency.Workers)
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.ttl", d.Cache.TTL)
	viper.SetDefault("cache.watch", d.Cache.Watch)
	viper.SetDefault("sources.primary_domains", d.Sources.PrimaryDomains)
	viper.SetDefault("sources.secondary_domains", d.Sources.SecondaryDomains)
	viper.SetDefault("output.dir", d.Output.Dir)
	viper.SetDefault("output.pretty", d.Output.Pretty)
	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
}

// loadConfig layers the config file, the environment and the flags over
// the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if noCache, _ := rootCmd.PersistentFlags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// buildLogger builds the zap logger selected by the logging config
func buildLogger(lc model.LoggingConfig) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if lc.Format == "json" {
		config = zap.NewProductionConfig()
	}

	if lc.Level != "" {
		level, err := zap.ParseAtomicLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
		config.Level = level
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}
