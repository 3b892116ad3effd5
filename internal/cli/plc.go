package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palletworks/palletpad/internal/model"
	"github.com/palletworks/palletpad/internal/plc"
	"github.com/palletworks/palletpad/internal/recipe"
)

// plcFlags holds the connection flags shared by write and read.
type plcFlags struct {
	address  string
	username string
	password string
	baseTag  string
	slots    int
}

func (f *plcFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.address, "address", "", "PLC web gateway address, e.g. http://plc.local:8080")
	cmd.Flags().StringVar(&f.username, "username", "", "gateway username")
	cmd.Flags().StringVar(&f.password, "password", "", "gateway password (or PALLETCTL_PASSWORD)")
	cmd.Flags().StringVar(&f.baseTag, "base-tag", "PatternDB", "controller data block name")
	cmd.Flags().IntVar(&f.slots, "slots", 20, "size of the controller's box array")
	cmd.MarkFlagRequired("address")
}

// connect builds a logged-in adapter from the flags.
func (f *plcFlags) connect(cmd *cobra.Command) (*plc.Adapter, error) {
	password := f.password
	if password == "" {
		password = os.Getenv("PALLETCTL_PASSWORD")
	}

	logger := loggerFromContext(cmd.Context())
	transport := plc.NewWebClient(f.address, logger)
	adapter, err := plc.NewAdapter(transport, plc.Config{
		Address:  f.address,
		Username: f.username,
		Password: password,
		BaseTag:  f.baseTag,
		MaxSlots: f.slots,
	})
	if err != nil {
		return nil, err
	}
	if err := adapter.Login(cmd.Context()); err != nil {
		return nil, err
	}
	return adapter, nil
}

func newWriteCmd() *cobra.Command {
	var flags plcFlags

	cmd := &cobra.Command{
		Use:   "write <recipe-file>",
		Short: "Push a recipe to the PLC's pattern data block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := loadPattern(args[0])
			if err != nil {
				return err
			}

			adapter, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			if err := adapter.Write(cmd.Context(), p.Specs()); err != nil {
				return err
			}
			logger.Info("pattern written", "boxes", p.Count(), "base-tag", flags.baseTag)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newReadCmd() *cobra.Command {
	var flags plcFlags
	var output string
	var palletW, palletD, grid float64

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Pull the PLC's current pattern into a recipe file",
		Long:  "Pull the PLC's current pattern. The controller does not store pallet dimensions, so they are supplied with --pallet-width/--pallet-depth. The recipe is written to --output, or printed to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			adapter, err := flags.connect(cmd)
			if err != nil {
				return err
			}
			specs, err := adapter.Read(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("pattern read", "boxes", len(specs))

			cfg := model.PalletConfig{Width: palletW, Depth: palletD, Grid: grid}
			p, err := model.NewPattern(cfg, flags.slots, 300, 200)
			if err != nil {
				return err
			}
			p.ReplaceBoxes(specs)

			text, err := recipe.Export(p)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(output, []byte(text), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			logger.Info("recipe saved", "output", output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "recipe file to write (stdout when omitted)")
	cmd.Flags().Float64Var(&palletW, "pallet-width", 1200, "pallet width in mm for the generated recipe")
	cmd.Flags().Float64Var(&palletD, "pallet-depth", 800, "pallet depth in mm for the generated recipe")
	cmd.Flags().Float64Var(&grid, "grid", 50, "grid spacing in mm for the generated recipe")
	return cmd
}
