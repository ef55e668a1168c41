package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagDataDir = "data-dir"

	// Run command flags
	FlagTemplate    = "template"
	FlagRefreshWake = "refresh-wake"
	FlagNoFocus     = "no-focus"

	// Report command flags
	FlagOut = "out"

	// Journal command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"
)
