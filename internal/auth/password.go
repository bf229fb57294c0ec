package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash stored in place of the password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash against a login attempt.
func CheckPassword(hash []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
