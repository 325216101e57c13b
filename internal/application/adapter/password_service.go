// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords below the minimum policy.
	ValidatePasswordStrength(password string) error
}
