package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajramos/themesync/internal/loader"
	"github.com/ajramos/themesync/internal/theme"
)

// Strategy enumerates installed themes
type Strategy interface {
	Name() string
	Discover() ([]theme.PaletteProvider, error)
}

// PackageDiscovery lists the theme packages compiled into the binary, i.e.
// the providers registered with theme.Register
type PackageDiscovery struct{}

func (PackageDiscovery) Name() string { return "package" }

func (PackageDiscovery) Discover() ([]theme.PaletteProvider, error) {
	return theme.Registered(), nil
}

// DirectoryDiscovery is the legacy plugin layout: every subdirectory of Root
// is a theme and must carry a palette definition. A missing Root holds no
// themes; a malformed subdirectory fails the whole scan.
type DirectoryDiscovery struct {
	Root string
}

func (d DirectoryDiscovery) Name() string { return "directory:" + d.Root }

func (d DirectoryDiscovery) Discover() ([]theme.PaletteProvider, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var providers []theme.PaletteProvider
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		dir := filepath.Join(d.Root, name)
		p, err := loader.NewPathProvider(dir)
		if err != nil {
			return nil, err
		}
		if len(p.Modes()) == 0 {
			return nil, &theme.StructuralError{Path: dir, Reason: "no modes defined"}
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// StrategiesFor builds the discovery strategies for a discovery mode
// ("package", "directory" or "both"). Package themes take priority.
func StrategiesFor(mode string, dirs []string) ([]Strategy, error) {
	var out []Strategy
	switch mode {
	case "package", "directory", "both":
	default:
		return nil, fmt.Errorf("unknown discovery mode '%s'", mode)
	}
	if mode != "directory" {
		out = append(out, PackageDiscovery{})
	}
	if mode != "package" {
		for _, d := range dirs {
			out = append(out, DirectoryDiscovery{Root: d})
		}
	}
	return out, nil
}
