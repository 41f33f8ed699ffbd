package hwconfig

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// RawEntry is a single key: value line from a config file. Disabled entries
// come from '#'-prefixed lines that still match the key grammar; they
// document a value without activating it.
type RawEntry struct {
	Key     Key
	Value   string
	Enabled bool
	Line    int
}

// File provides access to parsed config entries with access tracking.
type File struct {
	entries []RawEntry
	enabled map[string]RawEntry
	counts  map[string]int // array prefix -> contiguous length

	mu       sync.Mutex
	accessed map[string]struct{}
}

// Load reads and parses a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hwconfig: unable to read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse parses config text into a File.
//
// Each non-blank line is either an active entry (dotted.key: value), a
// disabled entry ('#'-prefixed but otherwise matching the grammar), or a
// pure comment. An active line that does not match the grammar is an error;
// a commented line that does not match is ignored.
func Parse(text string) (*File, error) {
	f := &File{
		enabled:  make(map[string]RawEntry),
		counts:   make(map[string]int),
		accessed: make(map[string]struct{}),
	}

	for lineNum, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			body := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if body == "" {
				continue
			}
			key, value, err := splitEntry(body, lineNum+1)
			if err != nil {
				// Prose comment, not a disabled entry.
				continue
			}
			f.entries = append(f.entries, RawEntry{Key: key, Value: value, Line: lineNum + 1})
			continue
		}

		key, value, err := splitEntry(line, lineNum+1)
		if err != nil {
			return nil, err
		}
		entry := RawEntry{Key: key, Value: value, Enabled: true, Line: lineNum + 1}
		f.entries = append(f.entries, entry)
		f.enabled[key.String()] = entry
	}

	if err := f.checkArrays(); err != nil {
		return nil, err
	}
	return f, nil
}

// splitEntry parses 'key: value' and validates the key grammar.
func splitEntry(line string, lineNum int) (Key, string, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return nil, "", errMalformedKey(lineNum, fmt.Sprintf("missing ':' in '%s'", line))
	}
	key, err := ParseKey(strings.TrimSpace(line[:colon]))
	if err != nil {
		pe := err.(*ParseError)
		pe.Line = lineNum
		return nil, "", pe
	}
	return key, strings.TrimSpace(line[colon+1:]), nil
}

// checkArrays validates that enabled array indices are contiguous from 0
// and records per-prefix lengths.
func (f *File) checkArrays() error {
	seen := make(map[string]map[int]struct{})
	for _, entry := range f.entries {
		if !entry.Enabled {
			continue
		}
		prefix, idx := entry.Key.indexedPrefix()
		if idx == NoIndex {
			continue
		}
		if seen[prefix] == nil {
			seen[prefix] = make(map[int]struct{})
		}
		seen[prefix][idx] = struct{}{}
	}

	prefixes := make([]string, 0, len(seen))
	for prefix := range seen {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		indices := make([]int, 0, len(seen[prefix]))
		for idx := range seen[prefix] {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for i, idx := range indices {
			if idx != i {
				return errSparseArray(prefix, indices)
			}
		}
		f.counts[prefix] = len(indices)
	}
	return nil
}

// markAccessed records that a key was looked up.
func (f *File) markAccessed(key string) {
	f.mu.Lock()
	f.accessed[key] = struct{}{}
	f.mu.Unlock()
}

// Has reports whether an enabled entry exists for the key.
func (f *File) Has(key string) bool {
	_, ok := f.enabled[key]
	return ok
}

// Get returns a string value. With a fallback, a missing key returns the
// fallback; without one it is an error.
func (f *File) Get(key string, fallback ...string) (string, error) {
	if entry, ok := f.enabled[key]; ok {
		f.markAccessed(key)
		return entry.Value, nil
	}
	if len(fallback) > 0 {
		f.markAccessed(key)
		return fallback[0], nil
	}
	return "", errMissingKey(key)
}

// Float returns a float64 value.
func (f *File) Float(key string, fallback ...float64) (float64, error) {
	if entry, ok := f.enabled[key]; ok {
		f.markAccessed(key)
		v, err := strconv.ParseFloat(entry.Value, 64)
		if err != nil {
			return 0, errMalformedValue(key, entry.Value, "float")
		}
		return v, nil
	}
	if len(fallback) > 0 {
		f.markAccessed(key)
		return fallback[0], nil
	}
	return 0, errMissingKey(key)
}

// Int returns an integer value.
func (f *File) Int(key string, fallback ...int) (int, error) {
	if entry, ok := f.enabled[key]; ok {
		f.markAccessed(key)
		v, err := strconv.Atoi(entry.Value)
		if err != nil {
			return 0, errMalformedValue(key, entry.Value, "integer")
		}
		return v, nil
	}
	if len(fallback) > 0 {
		f.markAccessed(key)
		return fallback[0], nil
	}
	return 0, errMissingKey(key)
}

// Bool returns a boolean value. The file format admits exactly 'True' and
// 'False', case-sensitive.
func (f *File) Bool(key string, fallback ...bool) (bool, error) {
	if entry, ok := f.enabled[key]; ok {
		f.markAccessed(key)
		switch entry.Value {
		case "True":
			return true, nil
		case "False":
			return false, nil
		default:
			return false, errMalformedValue(key, entry.Value, "True or False")
		}
	}
	if len(fallback) > 0 {
		f.markAccessed(key)
		return fallback[0], nil
	}
	return false, errMissingKey(key)
}

// Choice returns a string value that must be one of the given choices.
func (f *File) Choice(key string, choices []string, fallback ...string) (string, error) {
	v, err := f.Get(key, fallback...)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if v == c {
			return c, nil
		}
	}
	return "", errMalformedValue(key, v, "one of "+strings.Join(choices, ", "))
}

// Count returns the number of contiguous array indices declared for a
// prefix (e.g. Count("feed") for feed[0], feed[1], ...). Zero when the
// array is absent.
func (f *File) Count(prefix string) int {
	return f.counts[prefix]
}

// Keys returns the enabled keys in declaration order.
func (f *File) Keys() []string {
	var result []string
	for _, entry := range f.entries {
		if entry.Enabled {
			result = append(result, entry.Key.String())
		}
	}
	return result
}

// DisabledKeys returns documented-but-disabled keys in declaration order.
// Disabled entries are never activated; this is introspection only.
func (f *File) DisabledKeys() []string {
	var result []string
	for _, entry := range f.entries {
		if !entry.Enabled {
			result = append(result, entry.Key.String())
		}
	}
	return result
}

// Disabled returns the documented value of a disabled entry.
func (f *File) Disabled(key string) (string, bool) {
	for i := range f.entries {
		entry := &f.entries[i]
		if !entry.Enabled && entry.Key.String() == key {
			return entry.Value, true
		}
	}
	return "", false
}

// UnusedKeys returns enabled keys that were never accessed.
func (f *File) UnusedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []string
	for _, entry := range f.entries {
		if !entry.Enabled {
			continue
		}
		if _, ok := f.accessed[entry.Key.String()]; !ok {
			result = append(result, entry.Key.String())
		}
	}
	return result
}
