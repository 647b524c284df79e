// FILE: argopt/loader.go
package argopt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// WhereEnvironment labels diagnostics raised by LoadEnv.
const WhereEnvironment = "environment"

// LoadFile reads option values from a TOML, JSON or YAML file and applies them through the
// same dispatch as the command line. Keys are matched against long names first, then short
// names; nested tables are addressed with dots ("rc.mode"). Legacy "Key : value" cfg files
// are read as YAML.
//
// Unknown keys and bad values are reported to r under the file path and do not stop the load.
// Missing files, unreadable files and syntax errors are returned.
func (o *Options) LoadFile(path string, r *Reporter) error {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	// Determine format
	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(fileData)
	}

	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return fmt.Errorf("%w: TOML '%s': %w", ErrFileParse, path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number text
		if err := decoder.Decode(&fileConfig); err != nil {
			return fmt.Errorf("%w: JSON '%s': %w", ErrFileParse, path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return fmt.Errorf("%w: YAML '%s': %w", ErrFileParse, path, err)
		}
	default:
		return fmt.Errorf("%w: unable to determine format of '%s'", ErrFileParse, path)
	}

	flat := flattenMap(fileConfig, "")
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	d := &dispatcher{opts: o, r: r, where: path}
	for _, key := range keys {
		d.storePair(true, true, key, renderScalar(flat[key]))
	}
	return nil
}

// LoadEnv applies environment variables named after long aliases: PREFIX + the alias in
// upper case with '.' and '-' turned into '_'. The first alias found per option wins.
func (o *Options) LoadEnv(prefix string, r *Reporter) {
	d := &dispatcher{opts: o, r: r, where: WhereEnvironment}
	for _, opt := range o.list {
		for _, name := range opt.Long {
			envVar := envName(prefix, name)
			value, exists := os.LookupEnv(envVar)
			if !exists {
				continue
			}
			if len(value) > MaxValueSize {
				d.fail(fmt.Errorf("environment variable %s exceeds %d bytes", envVar, MaxValueSize))
			} else if err := opt.parse(value); err != nil {
				d.fail(err)
			}
			break
		}
	}
}

// envName maps a long alias to its environment variable.
func envName(prefix, name string) string {
	env := strings.NewReplacer(".", "_", "-", "_").Replace(name)
	return prefix + strings.ToUpper(env)
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml", ".cfg":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try TOML before YAML: YAML accepts almost any text as a scalar
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
