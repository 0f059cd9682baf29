package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ajramos/themesync/internal/config"
	"github.com/ajramos/themesync/internal/version"

	// Built-in themes register themselves for package discovery
	_ "github.com/ajramos/themesync/internal/themes"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/themesync/config.json)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	// Override flag usage text to show clean, simple usage
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, getConfigPath(*configPathFlag), flag.Args(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", version.GetVersionString())
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s [options] <command> [arguments]\n\n", os.Args[0])
	fmt.Fprintf(w, "Commands:\n")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-28s %s\n", name+" "+commands[name].args, commands[name].help)
	}
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s list                       # List installed theme variants\n", os.Args[0])
	fmt.Fprintf(w, "  %s export solarized/dark      # Write a color scheme if missing\n", os.Args[0])
	fmt.Fprintf(w, "  %s select dracula/dark        # Change the active theme\n\n", os.Args[0])
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprintf(w, "  --config string\n        %s\n", "Path to JSON configuration file (default: ~/.config/themesync/config.json)")
	fmt.Fprintf(w, "  --version\n        %s\n\n", "Show version information and exit")
	fmt.Fprintf(w, "Environment Variables:\n")
	fmt.Fprintf(w, "  THEMESYNC_CONFIG      Override default config file path\n")
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable THEMESYNC_CONFIG
// 3. Default path ~/.config/themesync/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("THEMESYNC_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}
