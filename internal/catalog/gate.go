package catalog

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLocked      = errors.New("catalog is locked: unlock with the password to change the file")
	ErrWrongSecret = errors.New("incorrect password")
)

// Gate guards catalog replacement. Once a catalog is loaded the gate is locked
// and only the configured secret opens it again.
type Gate struct {
	mu     sync.Mutex
	hash   []byte
	locked bool
}

// NewGate accepts either a bcrypt hash or a plain secret; the hash wins when both are set.
func NewGate(secretHash, secret string, locked bool) (*Gate, error) {
	hash := []byte(strings.TrimSpace(secretHash))
	if len(hash) == 0 {
		if secret == "" {
			return nil, errors.New("unlock secret is empty")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, err
	}
	return &Gate{hash: hash, locked: locked}, nil
}

func (g *Gate) Locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}

func (g *Gate) Lock() {
	g.mu.Lock()
	g.locked = true
	g.mu.Unlock()
}

func (g *Gate) verify(secret string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret)); err != nil {
		return ErrWrongSecret
	}
	return nil
}

// Unlock opens the gate when the secret matches. Unlocking an open gate still checks the secret.
func (g *Gate) Unlock(secret string) error {
	if err := g.verify(secret); err != nil {
		return err
	}
	g.mu.Lock()
	g.locked = false
	g.mu.Unlock()
	return nil
}
