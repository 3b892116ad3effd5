package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/palletworks/palletpad/internal/editor"
	"github.com/palletworks/palletpad/internal/export"
	boximporter "github.com/palletworks/palletpad/internal/importer"
	"github.com/palletworks/palletpad/internal/model"
	"github.com/palletworks/palletpad/internal/plc"
	"github.com/palletworks/palletpad/internal/project"
	"github.com/palletworks/palletpad/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	logger  *log.Logger
	config  model.AppConfig
	pattern *model.Pattern
	canvas  *widgets.PalletCanvas

	adapter  *plc.Adapter
	stopPoll func()

	// UI references for dynamic updates
	boxContainer *fyne.Container
	statusLabel  *widget.Label
	plcLabel     *widget.Label
}

// NewApp builds the application over the given window and config. The
// pattern starts from the config's editor defaults.
func NewApp(window fyne.Window, config model.AppConfig, logger *log.Logger) (*App, error) {
	pattern, err := model.NewPatternFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("invalid editor defaults: %w", err)
	}

	a := &App{
		window:  window,
		logger:  logger,
		config:  config,
		pattern: pattern,
	}
	a.canvas = widgets.NewPalletCanvas(pattern, editor.Config{Scheme: config.InputScheme})
	a.canvas.OnPatternChanged = a.refreshStatus
	a.canvas.OnEditError = func(err error) {
		dialog.ShowError(err, a.window)
	}
	return a, nil
}

// Config returns the current application config, for persisting at exit.
func (a *App) Config() model.AppConfig { return a.config }

// Shutdown stops background activity before the window closes.
func (a *App) Shutdown() {
	if a.stopPoll != nil {
		a.stopPoll()
		a.stopPoll = nil
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Pattern", func() {
			a.pattern.Clear()
			a.canvas.MarkDirty()
		}),
		fyne.NewMenuItem("Open Recipe...", func() {
			a.openRecipe()
		}),
		a.openRecentMenuItem(),
		fyne.NewMenuItem("Save Recipe...", func() {
			a.saveRecipe()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Boxes from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Boxes from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Pattern Sheet (PDF)...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Drawing (DXF)...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup All Data...", func() {
			a.backupAllData()
		}),
		fyne.NewMenuItem("Restore All Data...", func() {
			a.restoreAllData()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Add Box", func() {
			a.addBox()
		}),
		fyne.NewMenuItem("Rotate Selected", func() {
			a.canvas.Controller().RotateSelected()
		}),
		fyne.NewMenuItem("Delete Selected", func() {
			a.canvas.Controller().DeleteSelected()
		}),
		fyne.NewMenuItem("Clear All Boxes", func() {
			a.pattern.Clear()
			a.canvas.MarkDirty()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Pallet Size...", func() {
			a.showPalletSizeDialog()
		}),
	)

	plcMenu := fyne.NewMenu("PLC",
		fyne.NewMenuItem("Connect...", func() {
			a.showConnectDialog()
		}),
		fyne.NewMenuItem("Write Pattern to PLC", func() {
			a.writeToPLC()
		}),
		fyne.NewMenuItem("Read Pattern from PLC", func() {
			a.readFromPLC()
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit Pallet", func() {
			a.canvas.FitView()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, plcMenu, viewMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PalletPad",
		"PalletPad — Pallet Pattern Editor\n\n"+
			"A desktop application for laying out box patterns on a\n"+
			"pallet and transferring them to a palletizer PLC.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("")
	a.plcLabel = widget.NewLabel("PLC: not connected")

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.ContentAddIcon(), "Add box (double-click the pallet also works)", func() {
			a.addBox()
		}),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Rotate selected box 90°", func() {
			a.canvas.Controller().RotateSelected()
		}),
		newIconButtonWithTooltip(theme.DeleteIcon(), "Delete selected box", func() {
			a.canvas.Controller().DeleteSelected()
		}),
		newIconButtonWithTooltip(theme.ZoomFitIcon(), "Fit pallet to window", func() {
			a.canvas.FitView()
		}),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.UploadIcon(), "Write pattern to PLC", func() {
			a.writeToPLC()
		}),
		newIconButtonWithTooltip(theme.DownloadIcon(), "Read pattern from PLC", func() {
			a.readFromPLC()
		}),
	)

	a.boxContainer = container.NewVBox()
	a.refreshBoxList()
	sidePanel := container.NewBorder(
		widget.NewLabelWithStyle("Boxes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(a.boxContainer),
	)

	statusBar := container.NewHBox(a.statusLabel, layout.NewSpacer(), a.plcLabel)

	split := container.NewHSplit(a.canvas, sidePanel)
	split.SetOffset(0.78)

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			a.canvas.Controller().DeleteSelected()
		case fyne.KeyR:
			a.canvas.Controller().RotateSelected()
		}
	})

	a.refreshStatus()
	return container.NewBorder(toolbar, statusBar, nil, nil, split)
}

// refreshStatus updates the status bar and box list. Runs on the UI loop.
func (a *App) refreshStatus() {
	cfg := a.pattern.Config()
	a.statusLabel.SetText(fmt.Sprintf("Pallet %.0f x %.0f mm | Grid %.0f mm | Boxes %d",
		cfg.Width, cfg.Depth, cfg.Grid, a.pattern.Count()))
	a.refreshBoxList()
}

func (a *App) refreshBoxList() {
	if a.boxContainer == nil {
		return
	}
	a.boxContainer.RemoveAll()

	boxes := a.pattern.Boxes()
	if len(boxes) == 0 {
		a.boxContainer.Add(widget.NewLabel("No boxes yet.\nDouble-click the pallet to add one."))
		a.boxContainer.Refresh()
		return
	}

	header := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Size", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Center", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.boxContainer.Add(header)
	a.boxContainer.Add(widget.NewSeparator())

	for _, b := range boxes {
		id := b.ID // capture
		size := fmt.Sprintf("%.0fx%.0f", b.W, b.D)
		if b.Rot == model.Rot90 {
			size += " R"
		}
		row := container.NewGridWithColumns(4,
			widget.NewLabel(fmt.Sprintf("%d", id)),
			widget.NewLabel(size),
			widget.NewLabel(fmt.Sprintf("(%.0f, %.0f)", b.X, b.Y)),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.pattern.RemoveBoxes(id)
				a.canvas.MarkDirty()
			}),
		)
		a.boxContainer.Add(row)
	}
	a.boxContainer.Refresh()
}

// ─── Edit actions ──────────────────────────────────────────

func (a *App) addBox() {
	if _, err := a.pattern.AddBox(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.canvas.MarkDirty()
}

func (a *App) showPalletSizeDialog() {
	cfg := a.pattern.Config()

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%.0f", cfg.Width))

	depthEntry := widget.NewEntry()
	depthEntry.SetText(fmt.Sprintf("%.0f", cfg.Depth))

	gridEntry := widget.NewEntry()
	gridEntry.SetText(fmt.Sprintf("%.0f", cfg.Grid))

	presets, err := project.AllPresets(project.DefaultPresetsPath())
	if err != nil {
		a.logger.Warn("failed to load custom presets", "err", err)
	}
	presetNames := make([]string, len(presets))
	for i, p := range presets {
		presetNames[i] = p.Name
	}
	presetSelect := widget.NewSelect(presetNames, func(selected string) {
		for _, p := range presets {
			if p.Name == selected {
				widthEntry.SetText(fmt.Sprintf("%.0f", p.Width))
				depthEntry.SetText(fmt.Sprintf("%.0f", p.Depth))
				gridEntry.SetText(fmt.Sprintf("%.0f", p.Grid))
				break
			}
		}
	})
	presetSelect.PlaceHolder = "Select a preset size..."

	form := dialog.NewForm("Pallet Size", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Preset", presetSelect),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Depth (mm)", depthEntry),
			widget.NewFormItem("Grid (mm)", gridEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			d, _ := strconv.ParseFloat(depthEntry.Text, 64)
			g, _ := strconv.ParseFloat(gridEntry.Text, 64)

			next := model.PalletConfig{Width: w, Depth: d, Grid: g}
			if err := a.pattern.ResizePallet(next); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.config.PalletWidth = w
			a.config.PalletDepth = d
			a.config.GridSpacing = g
			a.canvas.MarkDirty()
			a.canvas.FitView()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 300))
	form.Show()
}

// ─── Recipe files ──────────────────────────────────────────

func (a *App) saveRecipe() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.SaveRecipe(path, a.pattern); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		project.AddRecentRecipe(&a.config, path)
		a.SetupMenus()
		a.logger.Info("recipe saved", "path", path)
	}, a.window)
	d.SetFileName("pattern" + project.RecipeExt)
	d.Show()
}

func (a *App) openRecipe() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openRecipePath(reader.URI().Path())
	}, a.window)
}

// openRecipePath loads the recipe at path into the pattern, shared by the
// open dialog and the Open Recent menu.
func (a *App) openRecipePath(path string) {
	if err := project.LoadRecipe(path, a.pattern); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	project.AddRecentRecipe(&a.config, path)
	a.SetupMenus()
	a.canvas.MarkDirty()
	a.canvas.FitView()
}

// openRecentMenuItem builds the File > Open Recent submenu from the
// persisted recent-recipes list. Disabled when the list is empty.
func (a *App) openRecentMenuItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Open Recent", nil)
	if len(a.config.RecentRecipes) == 0 {
		item.Disabled = true
		return item
	}
	item.ChildMenu = fyne.NewMenu("", recentRecipeItems(a.config.RecentRecipes, a.openRecipePath)...)
	return item
}

// recentRecipeItems builds one menu entry per remembered recipe path,
// labelled by file name.
func recentRecipeItems(paths []string, open func(string)) []*fyne.MenuItem {
	items := make([]*fyne.MenuItem, 0, len(paths))
	for _, p := range paths {
		path := p // capture
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			open(path)
		}))
	}
	return items
}

// ─── Import / export ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(boximporter.ImportCSV(reader.URI().Path()))
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(boximporter.ImportExcel(reader.URI().Path()))
	}, a.window)
}

func (a *App) handleImportResult(result boximporter.ImportResult) {
	if len(result.Errors) > 0 {
		dialog.ShowError(fmt.Errorf("errors during import:\n\n%s", strings.Join(result.Errors, "\n")), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import warning", "msg", w)
	}
	if len(result.Boxes) == 0 {
		return
	}

	combined := append(a.pattern.Specs(), result.Boxes...)
	dropped := len(combined) - a.pattern.MaxBoxes()
	a.pattern.ReplaceBoxes(combined)
	a.canvas.MarkDirty()

	msg := fmt.Sprintf("Successfully imported %d boxes.", len(result.Boxes))
	if dropped > 0 {
		msg += fmt.Sprintf("\n\n%d boxes beyond the %d-box limit were dropped.", dropped, a.pattern.MaxBoxes())
	}
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) exportPDF() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportPDF(path, "Pallet Pattern", a.pattern); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Pattern sheet saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("pattern.pdf")
	d.Show()
}

func (a *App) exportDXF() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportDXF(path, a.pattern); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Drawing saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("pattern.dxf")
	d.Show()
}

// ─── Backup / Restore ──────────────────────────────────────

// backupAllData saves the app config and custom presets to one JSON file.
func (a *App) backupAllData() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()

		presets, err := project.LoadCustomPresets(project.DefaultPresetsPath())
		if err != nil {
			a.logger.Warn("failed to load custom presets", "err", err)
		}
		if err := project.ExportAllData(path, a.config, presets); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("backup written", "path", path, "presets", len(presets))
		dialog.ShowInformation("Backup Complete", fmt.Sprintf("All settings saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("palletpad-backup.json")
	d.Show()
}

// restoreAllData replaces the app config and custom presets from a backup
// file. The current pattern is left alone; restored defaults apply to new
// patterns.
func (a *App) restoreAllData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		backup, err := project.ImportAllData(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config = backup.Config
		if len(backup.Presets) > 0 {
			if err := project.SaveCustomPresets(project.DefaultPresetsPath(), backup.Presets); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
		}
		a.SetupMenus()
		a.logger.Info("backup restored", "created", backup.CreatedAt, "presets", len(backup.Presets))
		dialog.ShowInformation("Restore Complete", "Settings restored. New patterns use the restored defaults.", a.window)
	}, a.window)
}

// ─── PLC ───────────────────────────────────────────────────

func (a *App) showConnectDialog() {
	addressEntry := widget.NewEntry()
	addressEntry.SetPlaceHolder("http://plc.local:8080")
	addressEntry.SetText(a.config.PLCAddress)

	userEntry := widget.NewEntry()
	userEntry.SetText(a.config.PLCUsername)

	passwordEntry := widget.NewPasswordEntry()

	tagEntry := widget.NewEntry()
	tagEntry.SetText(a.config.BaseTagPath)

	slotsEntry := widget.NewEntry()
	slotsEntry.SetText(fmt.Sprintf("%d", a.config.MaxSlots))

	form := dialog.NewForm("Connect to PLC", "Connect", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Gateway address", addressEntry),
			widget.NewFormItem("Username", userEntry),
			widget.NewFormItem("Password", passwordEntry),
			widget.NewFormItem("Base tag", tagEntry),
			widget.NewFormItem("Array slots", slotsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			slots, _ := strconv.Atoi(slotsEntry.Text)
			a.connect(addressEntry.Text, userEntry.Text, passwordEntry.Text, tagEntry.Text, slots)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(440, 320))
	form.Show()
}

func (a *App) connect(address, username, password, baseTag string, slots int) {
	transport := plc.NewWebClient(address, a.logger)
	adapter, err := plc.NewAdapter(transport, plc.Config{
		Address:     address,
		Username:    username,
		Password:    password,
		BaseTag:     baseTag,
		MaxSlots:    slots,
		LayerCount:  a.config.LayerCount,
		LayerHeight: a.config.LayerHeight,
	})
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	adapter.SetStatusHandler(func(s plc.Status) {
		fyne.Do(func() { a.showPLCStatus(s, adapter.LastError()) })
	})

	a.Shutdown() // stop any previous poller
	a.adapter = adapter
	a.config.PLCAddress = address
	a.config.PLCUsername = username
	a.config.BaseTagPath = baseTag
	a.config.MaxSlots = slots

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := adapter.Login(ctx); err != nil {
			a.logger.Error("plc login failed", "err", err)
			fyne.Do(func() { dialog.ShowError(err, a.window) })
			return
		}
		a.logger.Info("plc connected", "address", address)
		if a.config.PollSeconds > 0 {
			stop := adapter.StartPolling(time.Duration(a.config.PollSeconds)*time.Second, func(specs []model.BoxSpec) {
				fyne.Do(func() { a.applyRead(specs) })
			})
			fyne.Do(func() { a.stopPoll = stop })
		}
	}()
}

func (a *App) showPLCStatus(s plc.Status, lastErr error) {
	switch s {
	case plc.StatusError:
		if lastErr != nil {
			a.plcLabel.SetText(fmt.Sprintf("PLC: error — %v", lastErr))
			return
		}
		a.plcLabel.SetText("PLC: error")
	default:
		a.plcLabel.SetText("PLC: " + s.String())
	}
}

func (a *App) writeToPLC() {
	if a.adapter == nil {
		dialog.ShowInformation("Not connected", "Connect to a PLC first (PLC > Connect).", a.window)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a.adapter.WriteAsync(ctx, a.pattern.Specs(), func(err error) {
		defer cancel()
		if err != nil {
			a.logger.Error("pattern write failed", "err", err)
			fyne.Do(func() { dialog.ShowError(err, a.window) })
			return
		}
		a.logger.Info("pattern written", "boxes", a.pattern.Count())
	})
}

func (a *App) readFromPLC() {
	if a.adapter == nil {
		dialog.ShowInformation("Not connected", "Connect to a PLC first (PLC > Connect).", a.window)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a.adapter.ReadAsync(ctx, func(specs []model.BoxSpec, err error) {
		defer cancel()
		if err != nil {
			a.logger.Error("pattern read failed", "err", err)
			fyne.Do(func() { dialog.ShowError(err, a.window) })
			return
		}
		fyne.Do(func() { a.applyRead(specs) })
	})
}

// applyRead replaces the editor pattern with boxes read from the
// controller. Runs on the UI loop.
func (a *App) applyRead(specs []model.BoxSpec) {
	a.pattern.ReplaceBoxes(specs)
	a.canvas.MarkDirty()
}
