package ballast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultRedactPatterns are the key substrings matched by WithRedaction when
// no explicit patterns are given. Matching is case-insensitive.
var DefaultRedactPatterns = []string{"PASSWORD", "SECRET", "TOKEN", "PRIVATE"}

const redactedPlaceholder = "***redacted***"

// ExportOption configures export behavior using the functional options pattern.
type ExportOption func(*exportConfig)

type exportConfig struct {
	format string // "env", "json", "yaml", or "toml"
	indent string // Indentation for JSON output (default: "  ")
	redact []string
}

// AsJSON exports the store as a JSON object.
func AsJSON() ExportOption {
	return func(cfg *exportConfig) {
		cfg.format = "json"
	}
}

// AsYAML exports the store as a YAML document.
func AsYAML() ExportOption {
	return func(cfg *exportConfig) {
		cfg.format = "yaml"
	}
}

// AsTOML exports the store as a TOML document. TOML has no null, so null
// values export as empty strings.
func AsTOML() ExportOption {
	return func(cfg *exportConfig) {
		cfg.format = "toml"
	}
}

// AsEnv exports the store in .env format, one KEY=VALUE per line, sorted.
// This is the default.
func AsEnv() ExportOption {
	return func(cfg *exportConfig) {
		cfg.format = "env"
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.indent = indent
	}
}

// WithRedaction replaces values of secret-looking keys with a placeholder.
// Patterns are case-insensitive key substrings; with none given,
// DefaultRedactPatterns apply.
func WithRedaction(patterns ...string) ExportOption {
	return func(cfg *exportConfig) {
		if len(patterns) == 0 {
			patterns = DefaultRedactPatterns
		}
		cfg.redact = append(cfg.redact, patterns...)
	}
}

// Export writes the store's in-process table to w in the configured format.
// Keys are emitted in sorted order for the env format; structured formats
// marshal a flat key/value object.
func (s *Store) Export(w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{format: "env", indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}

	keys := s.Keys()

	switch cfg.format {
	case "env":
		for _, key := range keys {
			v, _ := s.Get(key)
			encoded := v.Encode()
			if cfg.redacted(key) {
				encoded = redactedPlaceholder
			}
			if _, err := fmt.Fprintf(w, "%s=%s\n", key, encoded); err != nil {
				return fmt.Errorf("write error: %w", err)
			}
		}
		return nil

	case "json":
		var data []byte
		var err error
		if cfg.indent != "" {
			data, err = json.MarshalIndent(s.exportMap(cfg, false), "", cfg.indent)
		} else {
			data, err = json.Marshal(s.exportMap(cfg, false))
		}
		if err != nil {
			return fmt.Errorf("json marshal error: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		return nil

	case "yaml":
		data, err := yaml.Marshal(s.exportMap(cfg, false))
		if err != nil {
			return fmt.Errorf("yaml marshal error: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		return nil

	case "toml":
		data, err := toml.Marshal(s.exportMap(cfg, true))
		if err != nil {
			return fmt.Errorf("toml marshal error: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("ballast: unsupported export format: %s", cfg.format)
	}
}

// ExportFile writes the export atomically to path via a temp file in the
// same directory. The format is inferred from the extension unless an
// explicit format option is given.
func (s *Store) ExportFile(path string, opts ...ExportOption) error {
	if format := inferFormat(path); format != "" {
		opts = append([]ExportOption{formatOption(format)}, opts...)
	}

	var buf bytes.Buffer
	if err := s.Export(&buf, opts...); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ballast-export-*")
	if err != nil {
		return fmt.Errorf("ballast: export %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ballast: export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ballast: export %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ballast: export %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ballast: export %s: %w", path, err)
	}
	return nil
}

// exportMap builds the flat map handed to the structured marshalers.
// nullAsEmpty substitutes "" for null values (TOML cannot represent null).
func (s *Store) exportMap(cfg exportConfig, nullAsEmpty bool) map[string]any {
	result := make(map[string]any)
	for _, key := range s.Keys() {
		v, _ := s.Get(key)
		if cfg.redacted(key) {
			result[key] = redactedPlaceholder
			continue
		}
		val := v.Interface()
		if val == nil && nullAsEmpty {
			val = ""
		}
		result[key] = val
	}
	return result
}

func (cfg exportConfig) redacted(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range cfg.redact {
		if strings.Contains(upper, strings.ToUpper(pattern)) {
			return true
		}
	}
	return false
}

func formatOption(format string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.format = format
	}
}

func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".env":
		return "env"
	default:
		return ""
	}
}
