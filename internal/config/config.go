// Package config provides Viper-based configuration loading for the idle server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/idlequest/internal/game/character"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// HTTPConfig holds the browser-facing listener settings.
type HTTPConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// ShutdownTimeout bounds graceful shutdown of open connections.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds the session and balance settings.
type GameConfig struct {
	// Persistence enables the postgres snapshot store. When false the game
	// runs in memory only.
	Persistence      bool          `mapstructure:"persistence"`
	SaveSlot         string        `mapstructure:"save_slot"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`

	StartingSpeed float64 `mapstructure:"starting_speed"`
	MaxSpeed      float64 `mapstructure:"max_speed"`
	AutoRest      bool    `mapstructure:"auto_rest"`
	// Seed fixes the dice for reproducible sessions; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`

	XPCurveC    float64 `mapstructure:"xp_curve_c"`
	XPCurveE    float64 `mapstructure:"xp_curve_e"`
	CritK       float64 `mapstructure:"crit_k"`
	HasteK      float64 `mapstructure:"haste_k"`
	MasteryK    float64 `mapstructure:"mastery_k"`
	ArmorK      float64 `mapstructure:"armor_k"`
	ArmorCap    float64 `mapstructure:"armor_cap"`
	RegenCapPct float64 `mapstructure:"regen_cap_pct"`

	GhostFormDuration time.Duration `mapstructure:"ghost_form_duration"`
}

// Rules returns the character rules these settings describe.
func (g GameConfig) Rules() character.Rules {
	r := character.DefaultRules()
	r.XPCurveC = g.XPCurveC
	r.XPCurveE = g.XPCurveE
	r.CritK = g.CritK
	r.HasteK = g.HasteK
	r.MasteryK = g.MasteryK
	r.RegenCapPct = g.RegenCapPct
	return r
}

// Tuning returns the combat tuning these settings describe.
func (g GameConfig) Tuning() combat.Tuning {
	return combat.Tuning{
		ArmorK:            g.ArmorK,
		ArmorCap:          g.ArmorCap,
		GhostFormDuration: g.GhostFormDuration,
	}
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Game.Persistence {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateHTTP(c.HTTP); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateHTTP(h HTTPConfig) error {
	var errs []string
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be 1-65535, got %d", h.Port))
	}
	if h.ShutdownTimeout < 0 {
		errs = append(errs, "http.shutdown_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.Persistence {
		if g.SaveSlot == "" {
			errs = append(errs, "game.save_slot must not be empty")
		}
		if g.AutosaveInterval <= 0 {
			errs = append(errs, fmt.Sprintf("game.autosave_interval must be > 0, got %s", g.AutosaveInterval))
		}
	}
	if g.MaxSpeed <= 0 {
		errs = append(errs, fmt.Sprintf("game.max_speed must be > 0, got %g", g.MaxSpeed))
	}
	if g.StartingSpeed <= 0 || g.StartingSpeed > g.MaxSpeed {
		errs = append(errs, fmt.Sprintf("game.starting_speed must be in (0, max_speed], got %g", g.StartingSpeed))
	}
	if err := g.Rules().Validate(); err != nil {
		errs = append(errs, "game: "+err.Error())
	}
	if err := g.Tuning().Validate(); err != nil {
		errs = append(errs, "game: "+err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with IDLE_ prefix
	v.SetEnvPrefix("IDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the shipped defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "idle")
	v.SetDefault("database.password", "idle")
	v.SetDefault("database.name", "idle")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.shutdown_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	rules := character.DefaultRules()
	tuning := combat.DefaultTuning()
	v.SetDefault("game.persistence", false)
	v.SetDefault("game.save_slot", "default")
	v.SetDefault("game.autosave_interval", "30s")
	v.SetDefault("game.starting_speed", 1.0)
	v.SetDefault("game.max_speed", 10.0)
	v.SetDefault("game.auto_rest", true)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.xp_curve_c", rules.XPCurveC)
	v.SetDefault("game.xp_curve_e", rules.XPCurveE)
	v.SetDefault("game.crit_k", rules.CritK)
	v.SetDefault("game.haste_k", rules.HasteK)
	v.SetDefault("game.mastery_k", rules.MasteryK)
	v.SetDefault("game.regen_cap_pct", rules.RegenCapPct)
	v.SetDefault("game.armor_k", tuning.ArmorK)
	v.SetDefault("game.armor_cap", tuning.ArmorCap)
	v.SetDefault("game.ghost_form_duration", tuning.GhostFormDuration.String())
}
