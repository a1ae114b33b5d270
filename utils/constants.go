// File: utils/constants.go
package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour

const numberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(numberAlphabet[rand.Intn(len(numberAlphabet))])
	}
	return strings.ToUpper(b.String())
}

// GenerateBookingNumber returns a human-readable booking identifier of the
// form KB-<base36 timestamp>-<4 random chars>. Collisions are accepted as
// negligible rather than actively checked.
func GenerateBookingNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "KB-" + ts + "-" + randomSuffix(4)
}

// GenerateReservationNumber returns a reservation identifier of the form
// KR-<base36 timestamp>-<4 random chars>.
func GenerateReservationNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "KR-" + ts + "-" + randomSuffix(4)
}
