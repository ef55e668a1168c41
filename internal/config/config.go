// Package config provides configuration types and defaults for splitclock.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration for splitclock.
type Config struct {
	Timer       TimerConfig       `yaml:"timer" mapstructure:"timer"`
	Focus       FocusConfig       `yaml:"focus" mapstructure:"focus"`
	Wake        WakeConfig        `yaml:"wake" mapstructure:"wake"`
	Template    TemplateConfig    `yaml:"template" mapstructure:"template"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// TimerConfig holds the timing engine settings.
type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"` // Display refresh and elapsed recompute cadence
}

// FocusConfig holds window-focus tracking settings.
type FocusConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"` // Also the focus time added per matching sample
	CaptureDelay time.Duration `yaml:"capture_delay" mapstructure:"capture_delay"` // Time to switch to the target window after arming
	Command      []string      `yaml:"command" mapstructure:"command"`             // Foreground window query argv; empty uses the platform default
}

// WakeConfig holds the wake-time source used to auto-complete the first split.
type WakeConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	Source         string   `yaml:"source" mapstructure:"source"` // CSV path; empty disables auto-complete
	DateColumn     string   `yaml:"date_column" mapstructure:"date_column"`
	TimeColumn     string   `yaml:"time_column" mapstructure:"time_column"`
	DateLayout     string   `yaml:"date_layout" mapstructure:"date_layout"`
	TimeLayout     string   `yaml:"time_layout" mapstructure:"time_layout"`
	Keywords       []string `yaml:"keywords" mapstructure:"keywords"`               // First split names that trigger auto-complete
	RefreshCommand []string `yaml:"refresh_command" mapstructure:"refresh_command"` // Run by --refresh-wake before the TUI starts
}

// TemplateConfig holds the fallback template used when nothing else loads.
type TemplateConfig struct {
	DefaultName   string   `yaml:"default_name" mapstructure:"default_name"`
	DefaultSplits []string `yaml:"default_splits" mapstructure:"default_splits"`
}

// PathsConfig holds file locations. Relative paths resolve against the data
// directory.
type PathsConfig struct {
	RunState     string `yaml:"run_state" mapstructure:"run_state"`
	LastTemplate string `yaml:"last_template" mapstructure:"last_template"`
	Library      string `yaml:"library" mapstructure:"library"`
	Journal      string `yaml:"journal" mapstructure:"journal"`
	LogDir       string `yaml:"log_dir" mapstructure:"log_dir"`
	Reports      string `yaml:"reports" mapstructure:"reports"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log and the journal (lumberjack-based).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			TickInterval: time.Second,
		},
		Focus: FocusConfig{
			Enabled:      true,
			PollInterval: time.Second,
			CaptureDelay: 3 * time.Second,
			Command:      []string{},
		},
		Wake: WakeConfig{
			Enabled:        true,
			DateColumn:     "Date",
			TimeColumn:     "Wake Time",
			DateLayout:     "2006-01-02",
			TimeLayout:     "3:04 PM",
			Keywords:       []string{"wake", "get up", "wakeup"},
			RefreshCommand: []string{},
		},
		Template: TemplateConfig{
			DefaultName:   "RIGID_SCHEDULE",
			DefaultSplits: []string{"Wake Up", "Brush Teeth", "Breakfast", "Work Start"},
		},
		Paths: PathsConfig{
			RunState:     "current_run_state.json",
			LastTemplate: "last_template_path.txt",
			Library:      "run_templates.json",
			Journal:      "journal.jsonl",
			LogDir:       "logs",
			Reports:      "reports",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Validate reports settings the timer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Timer.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("timer.tick_interval must be positive, got %s", c.Timer.TickInterval))
	}
	if c.Focus.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("focus.poll_interval must be positive, got %s", c.Focus.PollInterval))
	}
	if c.Focus.CaptureDelay < 0 {
		errs = append(errs, fmt.Errorf("focus.capture_delay must not be negative, got %s", c.Focus.CaptureDelay))
	}
	if c.Template.DefaultName == "" {
		errs = append(errs, errors.New("template.default_name must be set"))
	}
	return errors.Join(errs...)
}
