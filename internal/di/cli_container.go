package di

import (
	"github.com/spf13/pflag"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Search inputs; empty values are prompted for
	Query string
	Start string
	End   string
	Label string

	// Overrides for configuration keys
	Provider string
	TopK     int
	Output   string

	Verbose    bool
	JSONLog    bool
	NoInput    bool
	Reauth     bool
	ConfigFile string

	set *pflag.FlagSet
}

// configKeys maps flags to the configuration keys they override
var configKeys = map[string]string{
	"provider": "embedding.provider",
	"top-k":    "search.top_k",
	"output":   "output.format",
}

// RegisterFlags defines the command line flags on fs
func (f *CLIFlags) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Query, "query", "q", "", "What you remember about the email")
	fs.StringVar(&f.Start, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&f.End, "end", "", "End date (YYYY-MM-DD), inclusive")
	fs.StringVar(&f.Label, "label", "", "Label to search, or one of the \"All\" options")

	fs.StringVar(&f.Provider, "provider", "openai", "Embedding provider (openai, gemini, bedrock, hashing)")
	fs.IntVarP(&f.TopK, "top-k", "k", 5, "Number of results to show")
	fs.StringVarP(&f.Output, "output", "o", "console", "Output format (console, json, smtp)")

	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose logging")
	fs.BoolVar(&f.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.BoolVar(&f.NoInput, "no-input", false, "Never prompt; fail if the query is missing")
	fs.BoolVar(&f.Reauth, "reauth", false, "Discard the stored credential and authorize again")
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to config file")

	f.set = fs
}

// FlagSet returns the flag set the flags were registered on
func (f *CLIFlags) FlagSet() *pflag.FlagSet {
	return f.set
}
