package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coopandina/teller/internal/domain/valueobject"
)

// Generator implements port.IDGenerator. Account numbers are drawn from a
// random 8-digit space and deduplicated within the process; the database's
// unique constraint is the real collision guard across runs.
type Generator struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	issued   map[string]struct{}
	sequence int
}

// New creates a Generator seeded from the current time.
func New() *Generator {
	return &Generator{
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		issued: make(map[string]struct{}),
	}
}

// NewID returns a random UUID.
func (g *Generator) NewID() uuid.UUID {
	return uuid.New()
}

// AccountNumber returns a fresh CAC-NNNNNNNN number, never repeating within
// this process.
func (g *Generator) AccountNumber() valueobject.AccountNumber {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		candidate := fmt.Sprintf("CAC-%08d", g.rnd.Intn(100000000))
		if _, taken := g.issued[candidate]; taken {
			continue
		}
		g.issued[candidate] = struct{}{}
		number, err := valueobject.AccountNumberFromString(candidate)
		if err != nil {
			continue
		}
		return number
	}
}

// ReceiptNumber returns a time-prefixed sequential receipt number, unique
// within this process.
func (g *Generator) ReceiptNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sequence++
	return fmt.Sprintf("REC-%s-%06d", time.Now().Format("20060102"), g.sequence)
}
