package stash

import (
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Policy defines the eviction policy for the cache.
type Policy int

const (
	// LRU evicts the least recently read entry.
	LRU Policy = iota
	// LFU evicts the least frequently read entry.
	LFU
	// FIFO evicts the oldest entry by creation.
	FIFO
)

// String returns the lower-case policy name.
func (p Policy) String() string {
	switch p {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

func (p Policy) valid() bool {
	return p >= LRU && p <= FIFO
}

// ParsePolicy parses a policy name. Matching is case-insensitive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "unknown eviction policy %q", s),
			"field", "policy",
		)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (p Policy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "policy must be a string")
	}
	parsed, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// meta is the access bookkeeping a policy ranks entries by.
type meta struct {
	createdAt    time.Time
	lastAccessAt time.Time
	accessCount  int64
}

// evictor ranks entries. less reports whether a should be evicted before b.
type evictor interface {
	less(a, b meta) bool
}

// Compile-time interface assertions.
var (
	_ evictor = lruEvictor{}
	_ evictor = lfuEvictor{}
	_ evictor = fifoEvictor{}
)

type lruEvictor struct{}

func (lruEvictor) less(a, b meta) bool { return a.lastAccessAt.Before(b.lastAccessAt) }

type lfuEvictor struct{}

func (lfuEvictor) less(a, b meta) bool { return a.accessCount < b.accessCount }

type fifoEvictor struct{}

func (fifoEvictor) less(a, b meta) bool { return a.createdAt.Before(b.createdAt) }

func newEvictor(p Policy) evictor {
	switch p {
	case LFU:
		return lfuEvictor{}
	case FIFO:
		return fifoEvictor{}
	default:
		return lruEvictor{}
	}
}

// victim walks entries oldest-inserted first and keeps the first strict
// minimum, so ties go to the earliest-inserted key.
func victim[V any](ev evictor, entries *orderedmap.OrderedMap[string, *entry[V]]) (string, bool) {
	var (
		key   string
		best  meta
		found bool
	)
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value.meta()
		if !found || ev.less(m, best) {
			key, best, found = pair.Key, m, true
		}
	}
	return key, found
}
