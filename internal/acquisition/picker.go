package acquisition

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
	"time"

	"creaturedex/internal/creature"
)

// Picker chooses a candidate uniformly at random. A *rand.Rand is not safe
// for concurrent use, so draws share it under a mutex.
type Picker struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewPicker uses rng, or a generator seeded from crypto/rand when nil.
func NewPicker(rng *mrand.Rand) *Picker {
	if rng == nil {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		} else {
			rng = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
		}
	}
	return &Picker{rng: rng}
}

// Pick returns one of candidates. candidates must not be empty.
func (p *Picker) Pick(candidates []creature.Candidate) creature.Candidate {
	p.mu.Lock()
	i := p.rng.Intn(len(candidates))
	p.mu.Unlock()
	return candidates[i]
}
