package builder

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator derives short element ids from name-based UUIDs, so the same
// input tree always yields the same ids. Repeated names are suffixed with
// a per-name counter, and the rare truncated-hash collision is resolved by
// moving on to the next suffix.
type IDGenerator struct {
	namespace uuid.UUID
	length    int
	seen      map[string]bool
	suffix    map[string]int // next suffix to try per name
}

// NewIDGenerator creates a generator producing ids of length hex chars
// (at most 32) scoped by seed.
func NewIDGenerator(seed string, length int) *IDGenerator {
	if length <= 0 || length > 32 {
		length = 32
	}
	return &IDGenerator{
		namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte("wpexport/"+seed)),
		length:    length,
		seen:      make(map[string]bool),
		suffix:    make(map[string]int),
	}
}

// Next returns the id for name, unique within this generator. Each call
// costs one hash in the common case, however often name repeats.
func (g *IDGenerator) Next(name string) string {
	for i := g.suffix[name]; ; i++ {
		key := name
		if i > 0 {
			key = name + "#" + strconv.Itoa(i)
		}
		u := uuid.NewSHA1(g.namespace, []byte(key))
		id := strings.ReplaceAll(u.String(), "-", "")[:g.length]
		if !g.seen[id] {
			g.seen[id] = true
			g.suffix[name] = i + 1
			return id
		}
	}
}

// Reset forgets every issued id.
func (g *IDGenerator) Reset() {
	g.seen = make(map[string]bool)
	g.suffix = make(map[string]int)
}

// Counter hands out incrementing integer ids starting at a base.
type Counter struct {
	base int
	next int
}

// NewCounter returns a counter whose first id is base.
func NewCounter(base int) *Counter {
	return &Counter{base: base, next: base}
}

// Next returns the next id.
func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}

// Reset restarts at the base.
func (c *Counter) Reset() {
	c.next = c.base
}
