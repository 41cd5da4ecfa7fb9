package globals

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	root := &cobra.Command{Use: "linksync"}
	AddFlags(root)
	child := &cobra.Command{Use: "sync"}
	root.AddCommand(child)

	require.NoError(t, root.PersistentFlags().Parse([]string{"-o", "json", "-v", "--no-color"}))

	flags := Parse(child)
	assert.Equal(t, "json", flags.Output)
	assert.True(t, flags.Verbose)
	assert.True(t, flags.NoColor)
	assert.False(t, flags.Quiet)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  string
	}{
		{name: "fallback", flags: Flags{}, want: "info"},
		{name: "verbose", flags: Flags{Verbose: true}, want: "debug"},
		{name: "quiet", flags: Flags{Quiet: true}, want: "error"},
		{name: "explicit wins", flags: Flags{Verbose: true, LogLevel: "warn"}, want: "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Level("info"))
		})
	}
}
