package crypto

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// cryptoSource implements rand.Source on top of crypto/rand. It holds no
// state and is safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a rand.Source reading from crypto/rand.
func NewCryptoSource() rand.Source {
	return cryptoSource{}
}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error; it crashes the program instead.
	crand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// NewSeededSource returns a deterministic PCG source. It is not safe for
// concurrent use; wrap it with LockedSource when sharing it.
func NewSeededSource(seed1, seed2 uint64) rand.Source {
	return rand.NewPCG(seed1, seed2)
}

// NewTimeSeededSource returns a PCG source seeded from the wall clock,
// already wrapped for concurrent use.
func NewTimeSeededSource() rand.Source {
	now := uint64(time.Now().UnixNano())
	return LockedSource(rand.NewPCG(now, now>>1|1))
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

// LockedSource serializes access to src.
func LockedSource(src rand.Source) rand.Source {
	return &lockedSource{src: src}
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
