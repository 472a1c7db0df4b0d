package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

func New(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}

// OrderNumber returns the customer-facing order number. Uniqueness is
// timestamp-based, so two orders created in the same millisecond can collide;
// the store layer retries with a fresh number on conflict.
func OrderNumber(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixMilli())
}
