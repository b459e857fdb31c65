package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of a plaintext password, or nil when
// the password is empty (accounts created through social login carry no
// password hash).
func HashPassword(password string) (*string, error) {
	if password == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s := string(hash)
	return &s, nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// bcrypt hash. A nil hash never matches; those accounts cannot log in with a
// password.
func VerifyPassword(password string, hash *string) bool {
	if hash == nil || *hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}
