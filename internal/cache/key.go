package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Key derives the deterministic cache key for one completion request.
// The encoding covers model, temperature (presence and value), system
// text, and user text, with a separator byte so field boundaries cannot
// collide. Equal inputs always produce equal keys.
func Key(model string, temperature *float64, system, user string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	if temperature != nil {
		h.Write([]byte("t=" + strconv.FormatFloat(*temperature, 'g', -1, 64)))
	} else {
		h.Write([]byte("t=none"))
	}
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return hex.EncodeToString(h.Sum(nil))
}
