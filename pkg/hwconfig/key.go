package hwconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// NoIndex marks a key segment that carries no array index.
const NoIndex = -1

// Segment is one dotted-path element of a config key, optionally indexed.
type Segment struct {
	Name  string
	Index int // NoIndex when the segment has no array index
}

// Key is a dotted path of segments, e.g. rapid.retract.initial[1].speed.
type Key []Segment

// String returns the canonical textual form of the key.
func (k Key) String() string {
	var b strings.Builder
	for i, seg := range k {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		if seg.Index != NoIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// ParseKey parses a dotted key with optional [n] array indices.
func ParseKey(s string) (Key, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errMalformedKey(0, "empty key")
	}
	parts := strings.Split(s, ".")
	key := make(Key, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		key = append(key, seg)
	}
	return key, nil
}

// parseSegment parses a single name or name[int] segment.
func parseSegment(s string) (Segment, error) {
	name := s
	index := NoIndex
	if open := strings.IndexByte(s, '['); open >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Segment{}, errMalformedKey(0, fmt.Sprintf("segment '%s': unterminated index", s))
		}
		name = s[:open]
		idxText := s[open+1 : len(s)-1]
		idx, err := strconv.Atoi(idxText)
		if err != nil || idx < 0 {
			return Segment{}, errMalformedKey(0, fmt.Sprintf("segment '%s': invalid index '%s'", s, idxText))
		}
		index = idx
	}
	if name == "" {
		return Segment{}, errMalformedKey(0, fmt.Sprintf("segment '%s': missing name", s))
	}
	for _, r := range name {
		valid := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			return Segment{}, errMalformedKey(0, fmt.Sprintf("segment '%s': invalid character '%c'", s, r))
		}
	}
	return Segment{Name: name, Index: index}, nil
}

// indexedPrefix returns the path up to and including the first indexed
// segment (without its index), and that segment's index. The second return
// is NoIndex when the key carries no array index at all.
func (k Key) indexedPrefix() (string, int) {
	for i, seg := range k {
		if seg.Index != NoIndex {
			prefix := make(Key, i+1)
			copy(prefix, k[:i])
			prefix[i] = Segment{Name: seg.Name, Index: NoIndex}
			return prefix.String(), seg.Index
		}
	}
	return "", NoIndex
}
