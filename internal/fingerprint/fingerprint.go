// Package fingerprint reduces a queue response to a short change marker.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/notifyhub/callqueue/internal/domain"
)

// Empty is the uninitialized sentinel. No computed fingerprint is ever empty,
// including the one for an empty item list.
const Empty = ""

// length of the hex prefix kept from the digest.
const length = 8

// Of returns the fingerprint of the item identifiers in response order.
// The IDs are concatenated without a separator, hashed with MD5 and the first
// eight lowercase hex characters are kept. The server receives this value as
// lastHash, so the format has to stay stable.
func Of(items []domain.QueueItem) string {
	return OfIDs(domain.IDs(items))
}

func OfIDs(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(strconv.Itoa(id))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:length]
}
