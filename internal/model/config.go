package model

import (
	"runtime"
	"time"
)

// Config is the complete ethnia configuration
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// CorpusConfig locates the hand-authored documents
type CorpusConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`
	CountryDir string   `yaml:"country_dir" mapstructure:"country_dir"`
	PeopleDir  string   `yaml:"people_dir" mapstructure:"people_dir"`
	FamilyDir  string   `yaml:"family_dir" mapstructure:"family_dir"`
	Extension  string   `yaml:"extension" mapstructure:"extension"`
	Include    []string `yaml:"include" mapstructure:"include"`
	Exclude    []string `yaml:"exclude" mapstructure:"exclude"`
}

// ConcurrencyConfig sizes the corpus worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig controls the per-identifier result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"` // 0 keeps entries for the process lifetime
	Watch   bool          `yaml:"watch" mapstructure:"watch"`
}

// SourcesConfig classifies the hosts cited in source lists
type SourcesConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map" mapstructure:"domain_map"` // host -> primary|secondary|tertiary
}

// OutputConfig controls rendered output
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Pretty  bool   `yaml:"pretty" mapstructure:"pretty"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig selects the zap preset
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:       "./data",
			CountryDir: "pays",
			PeopleDir:  "peuples",
			FamilyDir:  "familles_linguistiques",
			Extension:  ".txt",
			Include:    []string{"**/*.txt"},
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Sources: SourcesConfig{
			PrimaryDomains: []string{
				"doi.org",
				"persee.fr",
				"cairn.info",
				"jstor.org",
				"hal.science",
				"unesco.org",
				"au.int",
			},
			SecondaryDomains: []string{
				"wikipedia.org",
				"britannica.com",
				"universalis.fr",
				"ethnologue.com",
				"glottolog.org",
			},
		},
		Output: OutputConfig{
			Dir:    "./ethnia-out",
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DirFor returns the corpus sub-directory holding documents of kind
func (c CorpusConfig) DirFor(kind Kind) string {
	switch kind {
	case KindCountry:
		return c.CountryDir
	case KindPeople:
		return c.PeopleDir
	case KindLanguageFamily:
		return c.FamilyDir
	default:
		return ""
	}
}
