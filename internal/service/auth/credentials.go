package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a login attempt against the single configured
// study user.
type CredentialVerifier interface {
	// Verify returns ErrInvalidCredentials when the username or password does
	// not match the configured user.
	Verify(username, password string) error
}

// configCredentials verifies logins against a username and bcrypt password
// hash taken from configuration. There is no user table.
type configCredentials struct {
	username     string
	passwordHash string
}

var _ CredentialVerifier = (*configCredentials)(nil)

// NewCredentialVerifier creates a CredentialVerifier for the configured user.
func NewCredentialVerifier(username, passwordHash string) CredentialVerifier {
	return &configCredentials{
		username:     username,
		passwordHash: passwordHash,
	}
}

// Verify implements CredentialVerifier. Both checks always run, and the
// username comparison is constant time.
func (c *configCredentials) Verify(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password))
	if !usernameOK || passwordErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
