// Package random provides cryptographically secure randomization for the
// resolver's outbound queries, closing the "transaction id is fixed / never
// validated" gap: a predictable or absent transaction ID lets an off-path
// attacker spoof a response before the real authoritative answer arrives.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// TransactionID generates a cryptographically random 16-bit transaction ID.
// math/rand must never be used here: its output is predictable enough to
// make cache-poisoning-by-guessing practical.
func TransactionID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return binary.BigEndian.Uint16(buf[:])
}
