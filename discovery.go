// FILE: argopt/discovery.go
package argopt

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions describes where a configuration file may come from.
// Sources are tried in order: the registered Option on the command line, the
// EnvVar variable, then Name+extension in each search directory.
type FileDiscoveryOptions struct {
	Name       string   // base name without extension
	Extensions []string // tried in order within each directory
	Paths      []string // searched before the working and XDG directories

	// Option is an alias of a registered option that names the file on the command line,
	// e.g. "c" for "-c enc.cfg" or "config" for "--config=enc.cfg".
	Option string
	EnvVar string

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions looks for <app>.cfg, .toml, .yaml, .yml or .json under the working
// directory and the XDG directories, with <APP>_CONFIG as an explicit override.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".cfg", ".toml", ".yaml", ".yml", ".json"},
		EnvVar:        envName("", appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile returns the path named by EnvVar, else the first regular file found in the
// search directories, else "". The command-line Option is resolved by the Builder.
func DiscoverFile(opts FileDiscoveryOptions) string {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}
	for _, dir := range opts.searchDirs() {
		for _, ext := range opts.Extensions {
			candidate := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate
			}
		}
	}
	return ""
}

func (opts FileDiscoveryOptions) searchDirs() []string {
	dirs := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if opts.UseXDG {
		dirs = append(dirs, xdgConfigDirs(opts.Name)...)
	}
	return dirs
}

// xdgConfigDirs follows the XDG base directory layout: the user directory, then system ones.
func xdgConfigDirs(appName string) []string {
	var dirs []string
	switch home := os.Getenv("XDG_CONFIG_HOME"); {
	case home != "":
		dirs = append(dirs, filepath.Join(home, appName))
	case os.Getenv("HOME") != "":
		dirs = append(dirs, filepath.Join(os.Getenv("HOME"), ".config", appName))
	}

	system := []string{"/etc/xdg", "/etc"}
	if list := os.Getenv("XDG_CONFIG_DIRS"); list != "" {
		system = strings.Split(list, string(os.PathListSeparator))
	}
	for _, dir := range system {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	return dirs
}

// WithFileDiscovery makes Build pick its configuration file with opts. The file is resolved
// when Build runs, against the final argument list. An explicit WithFile takes precedence.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// discoverFile resolves the discovery sources in precedence order.
func (b *Builder) discoverFile() string {
	if b.discovery.Option != "" {
		if path, ok := b.opts.Peek(b.args, b.discovery.Option); ok && path != "" {
			return path
		}
	}
	return DiscoverFile(*b.discovery)
}
