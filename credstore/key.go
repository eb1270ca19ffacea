package credstore

import (
	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/argon2"
)

// keySalt is fixed: the passphrase is the secret, the salt only separates
// this derivation from other argon2 uses of the same passphrase.
var keySalt = []byte("oddslane/session/credstore.v1")

// newCodec derives the hash and block keys for the credential blob codec
// from a passphrase.
func newCodec(passphrase string) (*securecookie.SecureCookie, error) {
	var hashKey, blockKey []byte
	if passphrase == "" {
		hashKey = securecookie.GenerateRandomKey(64)
		blockKey = securecookie.GenerateRandomKey(32)
		if hashKey == nil || blockKey == nil {
			return nil, errors.New("failed to generate random keys")
		}
	} else {
		k := argon2.IDKey([]byte(passphrase), keySalt, 2, 64*1024, 2, 96)
		hashKey, blockKey = k[:64], k[64:]
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(0)

	return sc, nil
}
