package auth

import "fmt"

// AdminSecret holds the single admin credential as an argon2id hash.
// A plaintext secret from the environment is hashed once at startup.
type AdminSecret struct {
	hash string
}

func NewAdminSecret(password, hash string) (*AdminSecret, error) {
	return NewAdminSecretWithParams(password, hash, DefaultArgon2Params())
}

func NewAdminSecretWithParams(password, hash string, p Argon2Params) (*AdminSecret, error) {
	if hash != "" {
		if _, _, _, err := decodeHash(hash); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		return &AdminSecret{hash: hash}, nil
	}
	h, err := HashPassword(password, p)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminSecret{hash: h}, nil
}

// Matches reports whether password is the admin secret. Empty never matches.
func (a *AdminSecret) Matches(password string) bool {
	ok, err := VerifyPassword(password, a.hash)
	return err == nil && ok
}
