package refnum

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Document number prefixes.
const (
	PrefixReceipt = "GRN"
	PrefixIssue   = "GIN"
	PrefixReturn  = "RET"
)

const suffixLen = 6

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generate builds a human-readable document number of the form
// <PREFIX>-<yyyyMMdd>-<suffix> with a random base-36 suffix. Stateless; the
// document tables carry unique constraints and callers retry generation on
// a duplicate-key failure.
func Generate(prefix string, at time.Time) string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock rather than abort document creation.
		return fmt.Sprintf("%s-%s-%06d", prefix, at.Format("20060102"), at.UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), string(buf))
}

// ForID embeds a known numeric id instead of a random suffix. Used where
// the document id already exists (return requests), making the number
// collision-free by construction.
func ForID(prefix string, at time.Time, id uint) string {
	return fmt.Sprintf("%s-%s-%d", prefix, at.Format("20060102"), id)
}
