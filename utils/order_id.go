package utils

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *mrand.Rand

func init() {
	seededRand = mrand.New(mrand.NewSource(time.Now().UnixNano()))
}

// GenerateOrderID produces a unique wallet-journal / stake reference.
func GenerateOrderID(userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("STK-%06d%03d%d", nanoPart, randPart, userID)
}

const voucherCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateVoucherCode returns a user-facing redemption code. Ambiguous
// characters (0/O, 1/I) are excluded from the charset.
func GenerateVoucherCode(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i := range b {
		out[i] = voucherCodeCharset[int(b[i])%len(voucherCodeCharset)]
	}
	return string(out), nil
}
