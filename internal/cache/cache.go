package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache holds synthesized audio. A zero ttl keeps the entry until evicted.
type Cache interface {
	GetBytes(ctx context.Context, key string) (val []byte, hit bool, err error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// AudioKey addresses synthesized speech by its inputs.
func AudioKey(text, language string, slow bool) string {
	sum := sha256.Sum256([]byte(text + "|" + language + "|" + strconv.FormatBool(slow)))
	return "tts:audio:" + hex.EncodeToString(sum[:])
}
