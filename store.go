package ballast

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ballastdev/ballast/envfile"
)

// Store is a typed key/value table backed by two synchronized namespaces: an
// in-process table holding coerced values and the process environment holding
// their canonical string encodings. After any write both namespaces agree on
// a key's value, with one exception: environment variables that were defined
// before the store touched them are never overwritten.
//
// Reads and writes are safe for concurrent use. Persistence targets the file
// the store was loaded from.
type Store struct {
	mu      sync.RWMutex
	values  map[string]Value
	origins map[string]string
	owned   map[string]bool // process-env keys this store wrote
	path    string
	log     *slog.Logger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithLogger sets the logger used to report non-fatal failures such as
// persistence errors. The default logger discards everything.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates an empty Store with no backing file.
func New(opts ...StoreOption) *Store {
	s := &Store{
		values:  make(map[string]Value),
		origins: make(map[string]string),
		owned:   make(map[string]bool),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a Store and loads the environment file at path.
func Open(path string, opts ...StoreOption) (*Store, error) {
	s := New(opts...)
	if err := s.Load(path); err != nil {
		return nil, err
	}
	return s, nil
}

// MustOpen is Open with the fatal-load contract: a store that cannot read its
// base environment file has no valid continuation, so any load failure prints
// a diagnostic to stderr and terminates the process with a non-zero status.
func MustOpen(path string, opts ...StoreOption) *Store {
	s, err := Open(path, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ballast: cannot start without environment file: %v\n", err)
		osExit(1)
	}
	return s
}

// osExit is swapped out by tests exercising the fatal path.
var osExit = os.Exit

// Load reads the file at path line by line and sets every KEY=VALUE pair.
// Blank lines and full-line comments ('#' or ';' at line start) are skipped,
// so disabled entries stay out of the runtime. A missing file returns an
// error wrapping ErrMissingFile.
func (s *Store) Load(path string) error {
	pairs, err := envfile.ParseFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("ballast: load %s: %w", path, err)
	}

	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	for _, pair := range pairs {
		s.set(pair.Key, pair.Value, fileOrigin(path, pair.Line))
	}
	return nil
}

// SetOption configures a single Set call.
type SetOption func(*setConfig)

type setConfig struct {
	persist bool
}

// Persist additionally rewrites the store's backing file: the first existing
// line for the key is replaced in place, otherwise KEY=VALUE is appended.
// Unrelated lines, comments included, keep their content and order.
func Persist() SetOption {
	return func(cfg *setConfig) {
		cfg.persist = true
	}
}

// Set writes a key into both namespaces and reports success.
//
// A blank key is rejected. A key prefixed with ';' is a disable operation:
// the bare key is removed from both namespaces (and, with Persist, its line
// in the file is commented out) instead of a new entry being written.
// Otherwise the trimmed value is coerced and stored; the process environment
// is only written when the variable was not already externally defined.
//
// All failures, including persistence I/O errors, are reported as false and
// logged; Set never panics.
func (s *Store) Set(key, value string, opts ...SetOption) bool {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	value = strings.TrimSpace(value)

	if bare, ok := strings.CutPrefix(key, ";"); ok {
		return s.disable(strings.TrimSpace(bare), cfg)
	}

	s.set(key, value, originRuntime)

	if cfg.persist {
		return s.persist(key, value)
	}
	return true
}

// set stores a coerced value in both namespaces without touching the file.
func (s *Store) set(key, value, origin string) {
	v := Coerce(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, external := os.LookupEnv(key); !external || s.owned[key] {
		os.Setenv(key, v.Encode())
		s.owned[key] = true
	}
	s.values[key] = v
	s.origins[key] = origin
}

// disable removes key from both namespaces. With persist, the file line is
// commented out rather than rewritten.
func (s *Store) disable(key string, cfg setConfig) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	delete(s.values, key)
	delete(s.origins, key)
	delete(s.owned, key)
	os.Unsetenv(key)
	s.mu.Unlock()

	if cfg.persist {
		s.mu.RLock()
		path := s.path
		s.mu.RUnlock()
		if path == "" {
			s.log.Warn("cannot persist disable", "key", key, "error", ErrNoPath)
			return false
		}
		if err := envfile.Disable(path, key); err != nil {
			s.log.Warn("persist disable failed", "key", key, "error", err)
			return false
		}
	}
	return true
}

// persist rewrites the backing file for a single key.
func (s *Store) persist(key, value string) bool {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()

	if path == "" {
		s.log.Warn("cannot persist", "key", key, "error", ErrNoPath)
		return false
	}
	if err := envfile.Rewrite(path, key, value); err != nil {
		s.log.Warn("persist failed", "key", key, "error", err)
		return false
	}
	return true
}

// Get looks a key up in the in-process table first, then in the process
// environment. A raw string found in the environment is coerced and the
// typed result cached back into the in-process table, so subsequent lookups
// return the typed value directly. Externally defined environment variables
// are read but never rewritten by the cache.
func (s *Store) Get(key string) (Value, bool) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v, true
	}

	raw, ok := os.LookupEnv(key)
	if !ok {
		return Value{}, false
	}

	v = Coerce(raw)
	s.mu.Lock()
	s.values[key] = v
	s.origins[key] = originEnv + key
	s.mu.Unlock()
	return v, true
}

// GetDefault returns the value for key, or def when the key is missing.
// Lookup misses are not errors. The default passes through untouched, never
// re-coerced.
func (s *Store) GetDefault(key string, def Value) Value {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// String returns the string for key, or def when the key is missing or holds
// a different kind.
func (s *Store) String(key, def string) string {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	if str, ok := v.AsString(); ok {
		return str
	}
	return def
}

// Int returns the integer for key, or def.
func (s *Store) Int(key string, def int64) int64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	if n, ok := v.AsInt(); ok {
		return n
	}
	return def
}

// Float returns the float for key, or def. Integers convert.
func (s *Store) Float(key string, def float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	if f, ok := v.AsFloat(); ok {
		return f
	}
	return def
}

// Bool returns the boolean for key, or def.
func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// Strings returns the list for key rendered as strings, or def. Non-string
// list items use their canonical encoding.
func (s *Store) Strings(key string, def []string) []string {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	items, ok := v.AsList()
	if !ok {
		return def
	}
	out := make([]string, len(items))
	for i, item := range items {
		if str, ok := item.AsString(); ok {
			out[i] = str
		} else {
			out[i] = item.Encode()
		}
	}
	return out
}

// Keys returns all keys in the in-process table, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys in the in-process table.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Path returns the backing file path, or "" for a store built with New.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Origin reports where a key's current value came from: "file:<path>:<line>",
// "env:<KEY>", or "runtime".
func (s *Store) Origin(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	origin, ok := s.origins[key]
	return origin, ok
}

// Origin name forms.
const (
	originRuntime = "runtime"
	originEnv     = "env:"
)

func fileOrigin(path string, line int) string {
	return fmt.Sprintf("file:%s:%d", path, line)
}

// reload re-reads the backing file and applies it to both namespaces.
// Keys that came from the file and have since disappeared are removed;
// changed or new pairs are set. Returns the sorted set of affected keys.
func (s *Store) reload() ([]string, error) {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()
	if path == "" {
		return nil, ErrNoPath
	}

	pairs, err := envfile.ParseFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, err
	}

	inFile := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		inFile[pair.Key] = true
	}

	var changed []string

	// Drop file-sourced keys no longer present.
	filePrefix := "file:" + path + ":"
	s.mu.Lock()
	for key, origin := range s.origins {
		if strings.HasPrefix(origin, filePrefix) && !inFile[key] {
			delete(s.values, key)
			delete(s.origins, key)
			if s.owned[key] {
				os.Unsetenv(key)
				delete(s.owned, key)
			}
			changed = append(changed, key)
		}
	}
	s.mu.Unlock()

	for _, pair := range pairs {
		v := Coerce(pair.Value)
		s.mu.RLock()
		old, had := s.values[pair.Key]
		s.mu.RUnlock()
		if !had || !old.Equal(v) {
			changed = append(changed, pair.Key)
		}
		s.set(pair.Key, pair.Value, fileOrigin(path, pair.Line))
	}

	sort.Strings(changed)
	return changed, nil
}
