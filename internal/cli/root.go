package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the palletctl CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose (-v) raises
// it to debug. The logger is attached to the context and accessible to all
// commands via loggerFromContext.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "palletctl",
		Short:        "palletctl manages pallet pattern recipes and PLC transfers",
		Long:         `palletctl is the companion CLI to the PalletPad editor: it validates and inspects recipe files, renders them to PDF or DXF, and pushes or pulls patterns over the PLC web gateway.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("palletctl %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newBackupCmd())
	root.AddCommand(newRestoreCmd())

	return root.ExecuteContext(context.Background())
}
