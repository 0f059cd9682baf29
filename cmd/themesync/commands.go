package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ajramos/themesync/internal/config"
	"github.com/ajramos/themesync/internal/registry"
	"github.com/ajramos/themesync/internal/services"
	"github.com/ajramos/themesync/internal/theme"
)

var errUsage = errors.New("usage")

type command struct {
	args string
	help string
	run  func(ctx context.Context, a *app, args []string) error
	// setup commands run without loading the config file
	setup func(configPath string, args []string, out io.Writer) error
}

var commands = map[string]command{
	"init":          {args: "[-force] [-backend name] [-themes-dir dir]", help: "Write a default config file", setup: cmdInit},
	"list":          {help: "List installed theme variants", run: cmdList},
	"export":        {args: "[-force] <variant>", help: "Write the color scheme of a variant", run: cmdExport},
	"export-all":    {args: "[-force]", help: "Write the color schemes of every variant", run: cmdExportAll},
	"names":         {help: "Publish the sorted variant list", run: cmdNames},
	"resolve":       {help: "Resolve and print the active theme", run: cmdResolve},
	"select":        {args: "<variant>", help: "Select the active theme", run: cmdSelect},
	"show":          {args: "<variant|scheme>", help: "Show a color scheme with swatches", run: cmdShow},
	"schemes":       {help: "List the color schemes in the settings store", run: cmdSchemes},
	"reset":         {args: "<variant>", help: "Reset a stored scheme to the theme's colors", run: cmdReset},
	"custom-create": {args: "<scheme>", help: "Copy a scheme into a new custom scheme", run: cmdCustomCreate},
	"custom-delete": {args: "<name>", help: "Delete a custom scheme", run: cmdCustomDelete},
	"history":       {args: "[variant]", help: "Show recent exports (sqlite store only)", run: cmdHistory},
	"watch":         {help: "Re-resolve the active theme when themes or the config file change", run: cmdWatch},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", errUsage
	}
	return args[0], nil
}

func variantArg(args []string) (theme.Variant, error) {
	s, err := oneArg(args)
	if err != nil {
		return theme.Variant{}, err
	}
	return theme.ParseVariant(s)
}

// policyFlags parses a trailing -force flag for the export commands
func policyFlags(name string, args []string) (services.ExportPolicy, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "overwrite existing values")
	if err := fs.Parse(args); err != nil {
		return services.FillIfMissing, nil, errUsage
	}
	if *force {
		return services.ForceReplace, fs.Args(), nil
	}
	return services.FillIfMissing, fs.Args(), nil
}

func cmdList(ctx context.Context, a *app, args []string) error {
	variants, err := a.registry.ListVariants()
	if err != nil {
		return err
	}
	for _, serr := range a.registry.ScanErrors() {
		fmt.Fprintf(a.errOut, "Warning: %v\n", serr)
	}

	rows := make([][3]string, 0, len(variants))
	widths := [3]int{len("VARIANT"), len("NAME"), 0}
	for _, v := range variants {
		stored := ""
		if a.sync.IsComplete(ctx, v) {
			stored = "stored"
		}
		row := [3]string{v.String(), a.sync.DisplayName(v), stored}
		for i := 0; i < 2; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}

	header := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(a.out, header.Render(runewidth.FillRight("VARIANT", widths[0])+"  "+runewidth.FillRight("NAME", widths[1])+"  SCHEME"))
	for _, row := range rows {
		line := runewidth.FillRight(row[0], widths[0]) + "  " + runewidth.FillRight(row[1], widths[1]) + "  " + row[2]
		fmt.Fprintln(a.out, strings.TrimRight(line, " "))
	}
	return nil
}

func cmdExport(ctx context.Context, a *app, args []string) error {
	policy, rest, err := policyFlags("export", args)
	if err != nil {
		return err
	}
	v, err := variantArg(rest)
	if err != nil {
		return err
	}
	if err := a.sync.Export(ctx, v, policy); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %s (%s)\n", v, policy)
	return nil
}

func cmdExportAll(ctx context.Context, a *app, args []string) error {
	policy, rest, err := policyFlags("export-all", args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return errUsage
	}
	report, err := a.sync.ExportAll(ctx, policy)
	if err != nil {
		return err
	}
	for _, f := range report.Failed {
		fmt.Fprintf(a.out, "failed   %s: %v\n", f.Variant, f.Err)
	}
	fmt.Fprintf(a.out, "exported %d, skipped %d, failed %d\n", len(report.Exported), len(report.Skipped), len(report.Failed))
	return nil
}

func cmdNames(ctx context.Context, a *app, args []string) error {
	names, err := a.sync.PublishNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func cmdResolve(ctx context.Context, a *app, args []string) error {
	palette, err := a.facade.CurrentPalette(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", palette.Variant, swatch(palette.EditorBackground))
	return nil
}

func cmdSelect(ctx context.Context, a *app, args []string) error {
	v, err := variantArg(args)
	if err != nil {
		return err
	}
	if err := a.facade.Select(ctx, v); err != nil {
		return err
	}
	active, _ := a.facade.ActiveVariant()
	fmt.Fprintf(a.out, "active theme: %s\n", active)
	return nil
}

// cmdShow prints a stored scheme, or the theme's own colors when nothing is
// stored for it
func cmdShow(ctx context.Context, a *app, args []string) error {
	name, err := oneArg(args)
	if err != nil {
		return err
	}

	scheme, display, err := a.sync.ReadScheme(ctx, name)
	if err != nil {
		v, perr := theme.ParseVariant(name)
		if perr != nil {
			return err
		}
		palette, _, lerr := a.loader.Load(ctx, v)
		if lerr != nil {
			return lerr
		}
		if scheme, err = theme.Extract(palette); err != nil {
			return err
		}
		display = a.sync.DisplayName(v) + " (not stored)"
	}

	fmt.Fprintln(a.out, lipgloss.NewStyle().Bold(true).Render(display))
	width := 0
	for _, e := range scheme {
		width = max(width, runewidth.StringWidth(e.Key))
	}
	for _, e := range scheme {
		fmt.Fprintf(a.out, "  %s  %s\n", runewidth.FillRight(e.Key, width), swatch(e.Value))
	}
	return nil
}

func cmdSchemes(ctx context.Context, a *app, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	names, err := a.sync.StoredSchemes(ctx)
	if err != nil {
		return err
	}

	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	for _, n := range names {
		state := ""
		if _, _, err := a.sync.ReadScheme(ctx, n); err != nil {
			state = "incomplete"
		}
		if strings.HasPrefix(n, "custom-") {
			state = strings.TrimSpace("custom " + state)
		}
		fmt.Fprintln(a.out, strings.TrimRight(runewidth.FillRight(n, width)+"  "+state, " "))
	}
	return nil
}

func cmdReset(ctx context.Context, a *app, args []string) error {
	v, err := variantArg(args)
	if err != nil {
		return err
	}
	if err := a.sync.ResetToDefault(ctx, v); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "reset %s\n", v)
	return nil
}

func cmdCustomCreate(ctx context.Context, a *app, args []string) error {
	from, err := oneArg(args)
	if err != nil {
		return err
	}
	name, err := a.sync.CreateCustom(ctx, from)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created %s\n", name)
	return nil
}

func cmdCustomDelete(ctx context.Context, a *app, args []string) error {
	name, err := oneArg(args)
	if err != nil {
		return err
	}
	if err := a.sync.DeleteCustom(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", name)
	return nil
}

func cmdHistory(ctx context.Context, a *app, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	history, ok := a.stores.History()
	if !ok {
		return fmt.Errorf("export history needs the sqlite store backend")
	}
	variant := ""
	if len(args) == 1 {
		variant = args[0]
	}
	records, err := history.ListExports(ctx, variant, 20)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(a.out, "%s  %-32s %-5s %2d keys\n", r.ExportedAt.Format("2006-01-02 15:04:05"), r.Variant, r.Policy, r.Written)
	}
	return nil
}

func cmdWatch(ctx context.Context, a *app, args []string) error {
	if !a.cfg.WatchThemes {
		return fmt.Errorf("theme watching is disabled, set watch_themes in the config file")
	}

	if err := a.facade.RegisterComponent("cli", func(p *theme.Palette) error {
		_, err := fmt.Fprintf(a.out, "active theme: %s\n", p.Variant)
		return err
	}); err != nil {
		return err
	}

	if _, err := a.facade.CurrentPalette(ctx); err != nil {
		return err
	}

	refresh := func() {
		a.facade.Invalidate()
		if _, err := a.facade.CurrentPalette(ctx); err != nil {
			a.logger.Error("failed to resolve theme after change", "err", err)
		}
	}

	var mu sync.Mutex
	dirsCtx, stopDirs := context.WithCancel(ctx)
	if _, err := a.registry.Watch(dirsCtx, refresh, a.themes...); err != nil {
		stopDirs()
		return err
	}

	// Config reloads rebuild discovery and retry a store that failed to open
	a.manager.AddWatcher(func(cfg *config.Config) {
		mu.Lock()
		defer mu.Unlock()

		dirs := a.manager.ThemesDirs()
		strategies, err := registry.StrategiesFor(cfg.Discovery, dirs)
		if err != nil {
			a.logger.Error("ignoring discovery settings", "err", err)
			return
		}
		stopDirs()
		a.registry.SetStrategies(strategies...)
		dirsCtx, stopDirs = context.WithCancel(ctx)
		if _, err := a.registry.Watch(dirsCtx, refresh, dirs...); err != nil {
			a.logger.Error("failed to watch theme directories", "err", err)
		}

		if !a.stores.IsReady() {
			if _, err := a.stores.Open(ctx); err != nil {
				a.logger.Error("settings store still unavailable", "err", err)
			}
		}
		refresh()
	})

	cw, err := a.manager.WatchFile(ctx, a.logger.Logger)
	if err != nil {
		mu.Lock()
		stopDirs()
		mu.Unlock()
		return err
	}
	<-cw.Done()

	mu.Lock()
	stopDirs()
	mu.Unlock()
	return nil
}

// cmdInit writes a config file built from the defaults and the given flags
func cmdInit(configPath string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("force", false, "overwrite an existing config file")
	backend := fs.String("backend", "", "settings store backend (sqlite or toml)")
	themesDir := fs.String("themes-dir", "", "directory holding theme folders")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	if _, err := os.Stat(configPath); err == nil && !*force {
		return fmt.Errorf("config file '%s' already exists, use -force to overwrite it", configPath)
	}

	manager := config.NewManager()
	manager.LoadFromDefaults()
	cfg := manager.GetConfig()
	if *backend != "" {
		cfg.Store.Backend = *backend
	}
	if *themesDir != "" {
		cfg.ThemesDirs = []string{*themesDir}
	}
	if err := manager.UpdateConfig(cfg); err != nil {
		return err
	}
	if err := manager.SaveToFile(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", configPath)
	return nil
}

func swatch(color string) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("    ")
	return block + " " + color
}
