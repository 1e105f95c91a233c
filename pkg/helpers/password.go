package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of plain at the default cost.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored bcrypt hash.
func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
