// Package globals provides the flags shared by every command.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	Output   string
	Quiet    bool
	Verbose  bool
	NoColor  bool
	LogLevel string
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml, wide")
	// --format is an alias for --output
	cmd.PersistentFlags().StringVar(&flags.Output, "format", "", "")
	_ = cmd.PersistentFlags().MarkHidden("format")

	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Only log errors")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Log debug details")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error")

	return flags
}

// Parse reads the global flags from the root of cmd's hierarchy.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()

	output, _ := root.PersistentFlags().GetString("output")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")
	logLevel, _ := root.PersistentFlags().GetString("log-level")

	return &Flags{
		Output:   output,
		Quiet:    quiet,
		Verbose:  verbose,
		NoColor:  noColor,
		LogLevel: logLevel,
	}
}

// Level resolves the effective log level; an explicit --log-level wins
// over -v and -q.
func (f *Flags) Level(fallback string) string {
	switch {
	case f.LogLevel != "":
		return f.LogLevel
	case f.Verbose:
		return "debug"
	case f.Quiet:
		return "error"
	default:
		return fallback
	}
}
