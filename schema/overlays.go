// Package schema keeps the registry of virtual CUE files that are overlaid on
// every CUE document load. The built-in overlays declare the ecunet.dev/ecunet
// module and its #System schema.
package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/load"
)

var (
	overlayMu       sync.RWMutex
	overlays        = make(map[string]load.Source)
	defaults        []func() error
	defaultsApplied bool
)

// OverlayDescriptor describes a virtual CUE file that can be registered as an overlay.
type OverlayDescriptor struct {
	Path   string
	Source load.Source
}

// RegisterOverlay registers a virtual CUE file that can be loaded via load.Config overlays.
func RegisterOverlay(path string, src load.Source) error {
	normalized, err := normalizeOverlayPath(path)
	if err != nil {
		return err
	}
	if src == nil {
		return errors.New("overlay source must not be nil")
	}
	overlayMu.Lock()
	defer overlayMu.Unlock()
	return register(normalized, src)
}

func register(path string, src load.Source) error {
	if _, exists := overlays[path]; exists {
		return fmt.Errorf("overlay %s already registered", path)
	}
	overlays[path] = src
	return nil
}

// RegisterOverlayString registers a virtual CUE file from a raw string.
func RegisterOverlayString(path, cue string) error {
	return RegisterOverlay(path, load.FromString(cue))
}

// RegisterOverlayFile registers a virtual CUE file from a parsed AST.
func RegisterOverlayFile(path string, file *ast.File) error {
	if file == nil {
		return errors.New("overlay file must not be nil")
	}
	return RegisterOverlay(path, load.FromFile(file))
}

// RegisterOverlayDescriptors registers all provided overlay descriptors.
func RegisterOverlayDescriptors(descs ...OverlayDescriptor) error {
	for _, desc := range descs {
		if err := RegisterOverlay(desc.Path, desc.Source); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefaultOverlay adds fn to the overlays that are registered on first
// use and again after every reset. fn must only call the Register functions
// of this package.
func RegisterDefaultOverlay(fn func() error) {
	if fn == nil {
		return
	}
	overlayMu.Lock()
	defer overlayMu.Unlock()
	defaults = append(defaults, fn)
	defaultsApplied = false
}

func normalizeOverlayPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("overlay path must not be empty")
	}
	if filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("overlay path %s must be relative", trimmed)
	}
	cleaned := filepath.Clean(trimmed)
	if cleaned == "." || cleaned == string(filepath.Separator) {
		return "", errors.New("overlay path must reference a file")
	}
	return cleaned, nil
}

// applyDefaults registers the default overlays once. Registrations made by
// the default functions re-enter the public Register functions, so the lock
// is not held while they run.
func applyDefaults() error {
	overlayMu.Lock()
	if defaultsApplied {
		overlayMu.Unlock()
		return nil
	}
	defaultsApplied = true
	fns := append([]func() error(nil), defaults...)
	overlayMu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveOverlays returns a copy of the overlay registry with paths joined to
// baseDir for load.Config. baseDir must be absolute for cue/load.
func ResolveOverlays(baseDir string) (map[string]load.Source, error) {
	if err := applyDefaults(); err != nil {
		return nil, fmt.Errorf("register default overlays: %w", err)
	}
	overlayMu.RLock()
	defer overlayMu.RUnlock()
	if len(overlays) == 0 {
		return nil, nil
	}
	resolved := make(map[string]load.Source, len(overlays))
	for path, src := range overlays {
		resolved[filepath.Join(baseDir, path)] = src
	}
	return resolved, nil
}

// Paths lists the registered overlay paths in sorted order.
func Paths() []string {
	if err := applyDefaults(); err != nil {
		return nil
	}
	overlayMu.RLock()
	defer overlayMu.RUnlock()
	out := make([]string, 0, len(overlays))
	for path := range overlays {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// ResetOverlaysForTest clears the overlay registry. Default overlays are
// registered again on the next resolve. This helper is intended for tests only.
func ResetOverlaysForTest() {
	overlayMu.Lock()
	overlays = make(map[string]load.Source)
	defaultsApplied = false
	overlayMu.Unlock()
}
