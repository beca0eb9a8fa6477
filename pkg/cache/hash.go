package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashKeys hashes an insertion sequence. Keys are written as varints in
// order, so a permutation of the same keys hashes differently.
func HashKeys(keys []int) string {
	h := sha256.New()
	var buf [binary.MaxVarintLen64]byte
	for _, k := range keys {
		n := binary.PutVarint(buf[:], int64(k))
		h.Write(buf[:n])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashKey names an entry "<kind>:<sha256 of the JSON-encoded parts>".
// The parts are plain option structs, which always encode.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
