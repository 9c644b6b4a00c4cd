package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	sessionID = uuid.NewString()
	captures  uint64
)

// SessionID identifies this running board, e.g. in mDNS TXT records.
func SessionID() string {
	return sessionID
}

// NextCapture returns a fresh snapshot id and its sequence number in this session.
func NextCapture() (string, uint64) {
	return uuid.NewString(), atomic.AddUint64(&captures, 1)
}
