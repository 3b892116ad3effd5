package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palletworks/palletpad/internal/export"
	"github.com/palletworks/palletpad/internal/model"
	"github.com/palletworks/palletpad/internal/recipe"
)

// cliMaxBoxes bounds patterns loaded by the CLI. It matches the editor's
// default box limit.
const cliMaxBoxes = 20

// loadPattern reads a recipe file into a fresh pattern.
func loadPattern(path string) (*model.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	r, err := recipe.Parse(string(data))
	if err != nil {
		return nil, err
	}
	cfg := model.PalletConfig{Width: r.Pallet.W, Depth: r.Pallet.D, Grid: r.Grid}
	p, err := model.NewPattern(cfg, cliMaxBoxes, 300, 200)
	if err != nil {
		return nil, err
	}
	p.ReplaceBoxes(r.Specs())
	return p, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <recipe-file>",
		Short: "Check a recipe file for syntax and constraint errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := loadPattern(args[0])
			if err != nil {
				return err
			}
			cfg := p.Config()
			logger.Info("recipe is valid",
				"pallet", fmt.Sprintf("%.0fx%.0f", cfg.Width, cfg.Depth),
				"grid", cfg.Grid,
				"boxes", p.Count())
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-file>",
		Short: "Print a recipe's pallet config and box list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPattern(args[0])
			if err != nil {
				return err
			}

			cfg := p.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pallet: %.0f x %.0f mm (grid %.0f mm)\n", cfg.Width, cfg.Depth, cfg.Grid)
			fmt.Fprintf(out, "Boxes:  %d\n\n", p.Count())

			if p.Count() == 0 {
				return nil
			}
			fmt.Fprintf(out, "%-4s %-12s %-14s %s\n", "ID", "Size (mm)", "Center (mm)", "Rot")
			for _, b := range p.Boxes() {
				rot := " 0"
				if b.Rot == model.Rot90 {
					rot = "90"
				}
				fmt.Fprintf(out, "%-4d %-12s %-14s %s\n",
					b.ID,
					fmt.Sprintf("%.0fx%.0f", b.W, b.D),
					fmt.Sprintf("(%.0f, %.0f)", b.X, b.Y),
					rot)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string
	var title string

	cmd := &cobra.Command{
		Use:   "export <recipe-file>",
		Short: "Render a recipe to a PDF pattern sheet or DXF drawing",
		Long:  "Render a recipe to a shareable file. The format follows the output extension: .pdf produces a pattern sheet with a QR-coded recipe, .dxf a CAD drawing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := loadPattern(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
			}

			switch strings.ToLower(filepath.Ext(output)) {
			case ".pdf":
				if title == "" {
					title = filepath.Base(args[0])
				}
				err = export.ExportPDF(output, title, p)
			case ".dxf":
				err = export.ExportDXF(output, p)
			default:
				return fmt.Errorf("unsupported output extension %q (want .pdf or .dxf)", filepath.Ext(output))
			}
			if err != nil {
				return err
			}
			logger.Info("exported", "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to the recipe name with .pdf)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "pattern sheet title (PDF only)")
	return cmd
}
