package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt digest from a plaintext password. bcrypt
// generates a random salt per call, so hashing the same password twice
// yields different digests.
func Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// Verify reports whether plain matches the stored digest. Kept for the
// future login flow.
func Verify(plain, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
}
