package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the cost existing account hashes were made with.
const DefaultBcryptCost = 10

// PasswordHasher is the single place passwords are hashed before a user
// record is written.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return NewPasswordHasherWithCost(DefaultBcryptCost)
}

// NewPasswordHasherWithCost falls back to DefaultBcryptCost for costs bcrypt
// rejects.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(hash), err
}

// Verify reports whether password matches hash. A malformed hash never
// matches.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
