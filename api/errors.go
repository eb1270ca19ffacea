package api

import (
	"errors"
)

var (
	// ErrSecondFactorRequired reports that the primary credential was valid
	// but the account requires a second factor. It is not a credential
	// failure; callers should re-invoke Authenticate with the code attached
	// rather than asking for the password again.
	ErrSecondFactorRequired = errors.New("second factor required")

	// ErrSecondFactorInvalid reports that the primary credential was valid
	// but the supplied second factor code was not.
	ErrSecondFactorInvalid = errors.New("invalid second factor code")
)

// SecondFactorRequired reports whether err signals the second-factor-required
// condition.
func SecondFactorRequired(err error) bool {
	return errors.Is(err, ErrSecondFactorRequired)
}

// SecondFactorInvalid reports whether err signals a rejected second factor
// code.
func SecondFactorInvalid(err error) bool {
	return errors.Is(err, ErrSecondFactorInvalid)
}
