package crypto

import "github.com/lborres/ledger/core"

// Scheme is a password handler that can identify its own hashes.
type Scheme interface {
	core.PasswordHandler
	Recognizes(hash string) bool
}

// Chain hashes with its primary scheme and verifies with whichever scheme
// recognizes the stored hash.
type Chain struct {
	primary Scheme
	legacy  []Scheme
}

var (
	_ core.PasswordHandler = (*Chain)(nil)
	_ core.RehashChecker   = (*Chain)(nil)
)

func NewChain(primary Scheme, legacy ...Scheme) *Chain {
	return &Chain{primary: primary, legacy: legacy}
}

// DefaultPasswordHandler hashes with argon2id and still accepts bcrypt.
func DefaultPasswordHandler() *Chain {
	return NewChain(NewArgon2(), NewBcrypt())
}

func (c *Chain) Hash(password string) (string, error) {
	return c.primary.Hash(password)
}

func (c *Chain) Verify(password, hash string) (bool, error) {
	if c.primary.Recognizes(hash) {
		return c.primary.Verify(password, hash)
	}
	for _, s := range c.legacy {
		if s.Recognizes(hash) {
			return s.Verify(password, hash)
		}
	}
	return false, ErrUnsupportedHashAlgo
}

// NeedsRehash reports whether hash was produced by a legacy scheme.
func (c *Chain) NeedsRehash(hash string) bool {
	return !c.primary.Recognizes(hash)
}
