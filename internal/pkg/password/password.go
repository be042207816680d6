package password

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// placeholderSecret is hashed once per Hasher so that verifying against a
// missing digest costs the same as a real comparison.
const placeholderSecret = "portfolio-api:no-such-account"

// Hasher wraps bcrypt with a configurable cost.
type Hasher struct {
	cost int

	placeholderOnce sync.Once
	placeholder     []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A missing digest is
// compared against a placeholder hash of the same cost and never matches.
func (h *Hasher) Verify(plaintext string, digest *string) bool {
	if digest == nil || *digest == "" {
		_ = bcrypt.CompareHashAndPassword(h.placeholderDigest(), []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*digest), []byte(plaintext)) == nil
}

func (h *Hasher) placeholderDigest() []byte {
	h.placeholderOnce.Do(func() {
		digest, err := bcrypt.GenerateFromPassword([]byte(placeholderSecret), h.cost)
		if err != nil {
			// cost is already clamped, so this only fails on a broken rand source
			panic(fmt.Sprintf("hash placeholder password failed: %v", err))
		}
		h.placeholder = digest
	})
	return h.placeholder
}
