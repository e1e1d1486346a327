package envfile

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/ballastdev/ballast/internal/envline"
	"github.com/gofrs/flock"
)

// Pair is a single KEY=VALUE assignment with its source line number.
type Pair struct {
	Key   string
	Value string
	Line  int // 1-based line number in the source file
}

// Parse reads assignments from r line by line. Blank lines and comments
// ('#' or ';' at line start) are skipped; lines without '=' or with an
// empty key are ignored.
func Parse(r io.Reader) ([]Pair, error) {
	var pairs []Pair

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		if envline.IsBlank(text) || envline.IsComment(text) {
			continue
		}

		key, value, ok := envline.Split(text)
		if !ok {
			continue
		}

		pairs = append(pairs, Pair{Key: key, Value: value, Line: line})
	}

	return pairs, scanner.Err()
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pairs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	return pairs, nil
}

// Rewrite sets key=value in the file at path, replacing the first line whose
// key matches case-insensitively (a ';' prefix on the stored key also
// matches, so rewriting re-enables a disabled entry). If no line matches, the
// assignment is appended. All unrelated lines keep their content and order.
// The format is line-oriented, so keys and values containing line breaks
// are rejected.
//
// The read-modify-write cycle runs under an advisory lock and the file is
// replaced atomically via a temp file in the same directory.
func Rewrite(path, key, value string) error {
	if strings.ContainsAny(key, "\n\r") || strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("env entry %s contains a line break", key)
	}

	return update(path, func(lines []string) []string {
		re := keyPattern(key)
		replacement := key + "=" + value

		for i, line := range lines {
			if re.MatchString(line) {
				lines[i] = replacement
				return lines
			}
		}
		return append(lines, replacement)
	})
}

// Disable comments out the first active line for key by prefixing it with
// ';'. Missing files and absent keys are not errors; there is nothing to
// disable.
func Disable(path, key string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return update(path, func(lines []string) []string {
		re := keyPattern(key)
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), ";") {
				continue
			}
			if re.MatchString(line) {
				lines[i] = ";" + line
				break
			}
		}
		return lines
	})
}

// keyPattern matches a KEY= assignment anchored at line start,
// case-insensitively, tolerating an optional ';' disable prefix and
// surrounding whitespace.
func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*;?\s*` + regexp.QuoteMeta(key) + `\s*=`)
}

// update applies fn to the file's lines under an advisory lock.
// Lines are read fully before any write to avoid truncation races.
func update(path string, fn func(lines []string) []string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock env file %s: %w", path, err)
	}
	defer lock.Unlock()

	lines, mode, err := readLines(path)
	if err != nil {
		return err
	}

	lines = fn(lines)

	return writeLines(path, lines, mode)
}

// readLines slurps all lines of path. A missing file yields no lines and the
// default mode, so Rewrite can create the file on first persist.
func readLines(path string) ([]string, fs.FileMode, error) {
	mode := fs.FileMode(0o644)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mode, nil
		}
		return nil, 0, fmt.Errorf("stat env file %s: %w", path, err)
	}
	mode = info.Mode().Perm()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read env file %s: %w", path, err)
	}

	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, mode, nil
	}
	return strings.Split(text, "\n"), mode, nil
}

// writeLines writes lines to a temp file in the target directory and renames
// it over path.
func writeLines(path string, lines []string, mode fs.FileMode) error {
	tmpPath, err := tempFileName(path)
	if err != nil {
		return err
	}

	var tmpCreated bool
	defer func() {
		if tmpCreated {
			_ = os.Remove(tmpPath)
		}
	}()

	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(tmpPath, []byte(content), mode); err != nil {
		return fmt.Errorf("write env file %s: %w", path, err)
	}
	tmpCreated = true

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace env file %s: %w", path, err)
	}
	tmpCreated = false

	return nil
}

// tempFileName generates a unique temp file name next to the target so the
// rename stays on one filesystem.
func tempFileName(path string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return path + ".tmp." + hex.EncodeToString(randomBytes), nil
}
