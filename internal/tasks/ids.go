package tasks

import (
	"crypto/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator hands out task ids. Implementations must never return the same
// value twice within a process.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// ULIDGenerator produces lexically sortable ids. Monotonic entropy keeps ids
// distinct and ordered even when several are drawn in the same millisecond.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// SequenceGenerator yields prefix1, prefix2, ... and is meant for tests.
type SequenceGenerator struct {
	Prefix string
	seq    atomic.Int64
}

func (g *SequenceGenerator) NewID() string {
	return g.Prefix + strconv.FormatInt(g.seq.Add(1), 10)
}

// NewIDGenerator maps a config scheme name to a generator.
func NewIDGenerator(scheme string) IDGenerator {
	switch scheme {
	case "ulid":
		return NewULIDGenerator()
	default:
		return UUIDGenerator{}
	}
}
