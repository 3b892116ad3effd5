// PalletPad — Pallet Pattern Editor
//
// A cross-platform desktop application for laying out box patterns on a
// pallet and transferring them to a palletizer PLC.
//
// Build:
//   go build -o palletpad ./cmd/palletpad
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o palletpad.exe ./cmd/palletpad
//   GOOS=darwin  GOARCH=amd64 go build -o palletpad-darwin ./cmd/palletpad
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"

	"github.com/palletworks/palletpad/internal/project"
	"github.com/palletworks/palletpad/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "palletpad",
	})

	configPath := project.DefaultConfigPath()
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "err", err)
	}

	application := app.NewWithID("com.palletworks.palletpad")
	application.Settings().SetTheme(ui.ThemeForName(config.Theme))

	window := application.NewWindow("PalletPad — Pallet Pattern Editor")

	appUI, err := ui.NewApp(window, config, logger)
	if err != nil {
		logger.Fatal("failed to start", "err", err)
	}
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()

	window.SetOnClosed(func() {
		appUI.Shutdown()
		if err := project.SaveAppConfig(configPath, appUI.Config()); err != nil {
			logger.Error("failed to save config", "path", configPath, "err", err)
		}
	})

	window.ShowAndRun()
}
