package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job ids are ULIDs: a 48-bit millisecond timestamp followed by 80 bits of
// randomness, written as 26 Crockford base32 characters. Ids created in the
// same millisecond carry an increasing sequence so they sort in creation order.

var (
	idMu    sync.Mutex
	idTime  uint64
	idCount uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a new unique, time-ordered job id.
func NewJobID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	ms := uint64(now.UnixMilli())
	if ms == idTime {
		idCount++
	} else {
		idTime = ms
		idCount = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], ms<<16)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], idCount)
	return encodeULID(b)
}

// encodeULID writes the 128 bits of b as 26 base32 digits, most significant
// first. The leading digit holds only 3 bits.
func encodeULID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[0:8])
	lo := binary.BigEndian.Uint64(b[8:16])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
