package cli

import (
	"github.com/spf13/cobra"

	"github.com/palletworks/palletpad/internal/project"
)

func newBackupCmd() *cobra.Command {
	var configPath, presetsPath string

	cmd := &cobra.Command{
		Use:   "backup <output-file>",
		Short: "Save the app config and custom pallet presets to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			config, err := project.LoadAppConfig(configPath)
			if err != nil {
				return err
			}
			presets, err := project.LoadCustomPresets(presetsPath)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], config, presets); err != nil {
				return err
			}
			logger.Info("backup written", "output", args[0], "presets", len(presets))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", project.DefaultConfigPath(), "app config file to back up")
	cmd.Flags().StringVar(&presetsPath, "presets", project.DefaultPresetsPath(), "custom presets file to back up")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var configPath, presetsPath string

	cmd := &cobra.Command{
		Use:   "restore <backup-file>",
		Short: "Replace the app config and custom presets from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(configPath, backup.Config); err != nil {
				return err
			}
			if len(backup.Presets) > 0 {
				if err := project.SaveCustomPresets(presetsPath, backup.Presets); err != nil {
					return err
				}
			}
			logger.Info("backup restored", "created", backup.CreatedAt, "presets", len(backup.Presets))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", project.DefaultConfigPath(), "app config file to write")
	cmd.Flags().StringVar(&presetsPath, "presets", project.DefaultPresetsPath(), "custom presets file to write")
	return cmd
}
