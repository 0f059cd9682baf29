package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ajramos/themesync/internal/theme"
)

// Keys shared with preference UIs
const (
	KeyNames       = "names"
	KeySelected    = "selected"
	KeyCustomNames = "custom_names"

	nameSuffix   = "name"
	customPrefix = "custom-"
)

// ExportPolicy decides what happens to keys that already hold a value
type ExportPolicy int

const (
	// FillIfMissing writes only keys that are absent or empty
	FillIfMissing ExportPolicy = iota
	// ForceReplace always overwrites
	ForceReplace
)

func (p ExportPolicy) String() string {
	switch p {
	case FillIfMissing:
		return "fill"
	case ForceReplace:
		return "force"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// ExportFailure is a variant the bulk export could not write
type ExportFailure struct {
	Variant theme.Variant
	Err     error
}

// ExportReport summarizes a bulk export
type ExportReport struct {
	Exported []theme.Variant
	Skipped  []theme.Variant
	Failed   []ExportFailure
}

// SchemeKey returns the persisted key of one scheme entry
func SchemeKey(scheme, key string) string {
	return scheme + "/" + key
}

// NameKey returns the persisted key of a scheme's display name
func NameKey(scheme string) string {
	return SchemeKey(scheme, nameSuffix)
}

// SyncServiceImpl implements SyncService
type SyncServiceImpl struct {
	store   ConfigStore
	catalog ThemeCatalog
	loader  PaletteLoader
	section string
	history ExportRecorder
	logger  *log.Logger
}

// NewSyncService creates a new sync service writing into section
func NewSyncService(store ConfigStore, catalog ThemeCatalog, loader PaletteLoader, section string, logger *log.Logger) *SyncServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncServiceImpl{
		store:   store,
		catalog: catalog,
		loader:  loader,
		section: section,
		logger:  logger.WithPrefix("sync"),
	}
}

// SetHistory enables export history recording
func (s *SyncServiceImpl) SetHistory(h ExportRecorder) {
	s.history = h
}

// Export writes the color scheme and display name of v. The variant that was
// loaded before the call is reloaded afterwards whatever the outcome.
func (s *SyncServiceImpl) Export(ctx context.Context, v theme.Variant, policy ExportPolicy) error {
	if s.store == nil || !s.store.IsReady() {
		return theme.ErrConfigUnavailable
	}

	prev, hadPrev := s.loader.Current()
	defer func() {
		if err := s.loader.Restore(context.WithoutCancel(ctx), prev, hadPrev); err != nil {
			s.logger.Warn("failed to restore theme after export", "variant", prev, "err", err)
		}
	}()

	palette, _, err := s.loader.Load(ctx, v)
	if err != nil {
		return err
	}
	scheme, err := theme.Extract(palette)
	if err != nil {
		return err
	}

	prefix := v.String()
	changes := make([]change, 0, len(scheme)+1)
	for _, e := range scheme {
		changes = append(changes, change{key: SchemeKey(prefix, e.Key), value: e.Value})
	}
	changes = append(changes, change{key: NameKey(prefix), value: s.DisplayName(v)})

	if policy == FillIfMissing {
		changes, err = s.missingOnly(ctx, changes)
		if err != nil {
			return err
		}
	}

	if err := s.apply(ctx, changes); err != nil {
		return fmt.Errorf("failed to export theme '%s': %w", v, err)
	}

	s.logger.Debug("exported color scheme", "variant", v, "policy", policy, "written", len(changes))
	if s.history != nil && len(changes) > 0 {
		if err := s.history.RecordExport(ctx, prefix, policy.String(), len(changes)); err != nil {
			s.logger.Warn("failed to record export", "variant", v, "err", err)
		}
	}
	return nil
}

// ExportAll exports every installed variant. Failures are isolated per variant.
// Under FillIfMissing, variants whose keys are all readable are skipped.
func (s *SyncServiceImpl) ExportAll(ctx context.Context, policy ExportPolicy) (ExportReport, error) {
	var report ExportReport
	if s.store == nil || !s.store.IsReady() {
		return report, theme.ErrConfigUnavailable
	}

	variants, err := s.catalog.ListVariants()
	if err != nil {
		return report, err
	}

	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if policy == FillIfMissing && s.IsComplete(ctx, v) {
			report.Skipped = append(report.Skipped, v)
			continue
		}
		if err := s.Export(ctx, v, policy); err != nil {
			s.logger.Error("export failed", "variant", v, "err", err)
			report.Failed = append(report.Failed, ExportFailure{Variant: v, Err: err})
			continue
		}
		report.Exported = append(report.Exported, v)
	}

	s.logger.Info("bulk export finished",
		"exported", len(report.Exported), "skipped", len(report.Skipped), "failed", len(report.Failed))
	return report, nil
}

// IsComplete reports whether the display name and every scheme key of v can
// be read back with a non-empty value
func (s *SyncServiceImpl) IsComplete(ctx context.Context, v theme.Variant) bool {
	if s.store == nil || !s.store.IsReady() {
		return false
	}
	prefix := v.String()
	keys := append([]string{NameKey(prefix)}, schemeKeys(prefix)...)
	for _, k := range keys {
		if _, ok := s.readString(ctx, k); !ok {
			return false
		}
	}
	return true
}

// PublishNames writes the sorted list of variant keys for preference UIs
func (s *SyncServiceImpl) PublishNames(ctx context.Context) ([]string, error) {
	if s.store == nil || !s.store.IsReady() {
		return nil, theme.ErrConfigUnavailable
	}
	variants, err := s.catalog.ListVariants()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.String()
	}
	slices.Sort(names)

	if err := s.store.Set(ctx, s.section, KeyNames, names); err != nil {
		return nil, fmt.Errorf("failed to publish scheme names: %w", err)
	}
	return names, nil
}

// ResetToDefault overwrites the persisted scheme of v with the theme's values
func (s *SyncServiceImpl) ResetToDefault(ctx context.Context, v theme.Variant) error {
	if v.IsZero() {
		return ErrInvalidInput
	}
	return s.Export(ctx, v, ForceReplace)
}

// CreateCustom copies an existing scheme into a new custom scheme and returns
// its name
func (s *SyncServiceImpl) CreateCustom(ctx context.Context, from string) (string, error) {
	if strings.TrimSpace(from) == "" {
		return "", ErrInvalidInput
	}
	scheme, _, err := s.ReadScheme(ctx, from)
	if err != nil {
		return "", err
	}
	customs, err := s.customNames(ctx)
	if err != nil {
		return "", err
	}

	var name string
	for n := 0; ; n++ {
		name = customPrefix + strconv.Itoa(n)
		if !slices.Contains(customs, name) {
			break
		}
	}

	changes := make([]change, 0, len(scheme)+2)
	for _, e := range scheme {
		changes = append(changes, change{key: SchemeKey(name, e.Key), value: e.Value})
	}
	changes = append(changes,
		change{key: NameKey(name), value: name},
		change{key: KeyCustomNames, value: append(slices.Clone(customs), name)},
	)
	if err := s.apply(ctx, changes); err != nil {
		return "", fmt.Errorf("failed to create custom scheme: %w", err)
	}

	s.logger.Info("created custom scheme", "name", name, "from", from)
	return name, nil
}

// DeleteCustom removes a custom scheme. Schemes exported from themes are refused.
func (s *SyncServiceImpl) DeleteCustom(ctx context.Context, name string) error {
	customs, err := s.customNames(ctx)
	if err != nil {
		return err
	}
	idx := slices.Index(customs, name)
	if idx < 0 {
		return fmt.Errorf("%w: '%s'", ErrNotCustomScheme, name)
	}

	changes := make([]change, 0, len(theme.SchemeKeys)+2)
	for _, k := range schemeKeys(name) {
		changes = append(changes, change{key: k, remove: true})
	}
	changes = append(changes,
		change{key: NameKey(name), remove: true},
		change{key: KeyCustomNames, value: slices.Delete(slices.Clone(customs), idx, idx+1)},
	)
	if err := s.apply(ctx, changes); err != nil {
		return fmt.Errorf("failed to delete custom scheme: %w", err)
	}

	s.logger.Info("deleted custom scheme", "name", name)
	return nil
}

// StoredSchemes lists the schemes that have a display name in the store,
// sorted. This includes schemes of themes that are no longer installed.
func (s *SyncServiceImpl) StoredSchemes(ctx context.Context) ([]string, error) {
	if s.store == nil || !s.store.IsReady() {
		return nil, theme.ErrConfigUnavailable
	}
	lister, ok := s.store.(KeyLister)
	if !ok {
		return nil, fmt.Errorf("config store cannot list its keys")
	}
	keys, err := lister.Keys(ctx, s.section)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored schemes: %w", err)
	}

	var names []string
	for _, k := range keys {
		if name, ok := strings.CutSuffix(k, "/"+nameSuffix); ok && name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// ReadScheme reads a persisted scheme and its display name. Any missing key
// is reported as a PaletteIncompleteError.
func (s *SyncServiceImpl) ReadScheme(ctx context.Context, name string) (theme.ColorScheme, string, error) {
	if s.store == nil || !s.store.IsReady() {
		return nil, "", theme.ErrConfigUnavailable
	}

	var missing []string
	scheme := make(theme.ColorScheme, 0, len(theme.SchemeKeys))
	for _, k := range theme.SchemeKeys {
		v, ok := s.readString(ctx, SchemeKey(name, k))
		if !ok {
			missing = append(missing, k)
			continue
		}
		scheme = append(scheme, theme.SchemeEntry{Key: k, Value: v})
	}
	display, ok := s.readString(ctx, NameKey(name))
	if !ok {
		missing = append(missing, nameSuffix)
	}
	if len(missing) > 0 {
		return nil, "", fmt.Errorf("scheme '%s': %w", name, &theme.PaletteIncompleteError{Missing: missing})
	}
	return scheme, display, nil
}

// DisplayName returns the human readable name of v
func (s *SyncServiceImpl) DisplayName(v theme.Variant) string {
	name := ""
	if s.catalog != nil {
		if p, err := s.catalog.Provider(v.Theme); err == nil {
			name = p.Name()
		}
	}
	return theme.DisplayName(v, name)
}

// change is one pending store mutation
type change struct {
	key    string
	value  any
	remove bool
}

// snapshot is the state of a key before a change
type snapshot struct {
	key   string
	value any
	found bool
}

// missingOnly drops changes whose key already holds a non-empty value
func (s *SyncServiceImpl) missingOnly(ctx context.Context, changes []change) ([]change, error) {
	out := changes[:0]
	for _, c := range changes {
		v, ok, err := s.store.Get(ctx, s.section, c.key)
		if err != nil {
			return nil, err
		}
		if ok && !isEmpty(v) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// apply performs changes in order. On failure the keys already touched are
// put back to their previous state, newest first.
func (s *SyncServiceImpl) apply(ctx context.Context, changes []change) error {
	before := make([]snapshot, 0, len(changes))
	for _, c := range changes {
		v, ok, err := s.store.Get(ctx, s.section, c.key)
		if err != nil {
			return err
		}
		before = append(before, snapshot{key: c.key, value: v, found: ok})
	}

	for i, c := range changes {
		var err error
		if c.remove {
			err = s.store.Remove(ctx, s.section, c.key)
		} else {
			err = s.store.Set(ctx, s.section, c.key, c.value)
		}
		if err != nil {
			if rbErr := s.rollback(ctx, before[:i]); rbErr != nil {
				return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
			}
			return err
		}
	}
	return nil
}

func (s *SyncServiceImpl) rollback(ctx context.Context, touched []snapshot) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(touched) - 1; i >= 0; i-- {
		snap := touched[i]
		var err error
		if snap.found {
			err = s.store.Set(ctx, s.section, snap.key, snap.value)
		} else {
			err = s.store.Remove(ctx, s.section, snap.key)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", snap.key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SyncServiceImpl) customNames(ctx context.Context) ([]string, error) {
	if s.store == nil || !s.store.IsReady() {
		return nil, theme.ErrConfigUnavailable
	}
	v, ok, err := s.store.Get(ctx, s.section, KeyCustomNames)
	if err != nil || !ok {
		return nil, err
	}
	switch list := v.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("'%s' holds a non-string entry", KeyCustomNames)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("'%s' is not a list", KeyCustomNames)
	}
}

func (s *SyncServiceImpl) readString(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.Get(ctx, s.section, key)
	if err != nil || !ok {
		return "", false
	}
	str, isStr := v.(string)
	if !isStr || str == "" {
		return "", false
	}
	return str, true
}

func schemeKeys(prefix string) []string {
	keys := make([]string, len(theme.SchemeKeys))
	for i, k := range theme.SchemeKeys {
		keys[i] = SchemeKey(prefix, k)
	}
	return keys
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if str, ok := v.(string); ok {
		return str == ""
	}
	return false
}
