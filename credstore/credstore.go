// Package credstore persists the session credentials (bearer token and
// last-known user record) across client restarts. The blob is encoded and
// MACed with a securecookie codec before it touches disk, so a copied
// credential file is useless without the store's passphrase.
package credstore

import (
	"os"
	"path/filepath"

	"github.com/go-playground/errors/v5"
	"github.com/gorilla/securecookie"
	"github.com/oddslane/session/api"
	"golang.org/x/oauth2"
)

const blobName = "credentials"

// Credentials is the persisted client-side state: the opaque bearer token
// and the last-known user record for instant boot-time render.
type Credentials struct {
	Token *oauth2.Token `json:"token,omitempty"`
	User  *api.User     `json:"user,omitempty"`
}

// FileStore stores the encoded credential blob in a single file.
type FileStore struct {
	path string
	sc   *securecookie.SecureCookie
}

// NewFileStore creates a FileStore at path. The passphrase protects the blob
// at rest; an empty passphrase uses a random per-process key, so persisted
// credentials will not survive a restart.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	sc, err := newCodec(passphrase)
	if err != nil {
		return nil, err
	}

	return &FileStore{path: path, sc: sc}, nil
}

// Load reads the persisted credentials. A missing or undecodable file yields
// empty credentials, not an error: a credential blob written under another
// key is treated the same as no credentials at all.
func (s *FileStore) Load() (*Credentials, error) {
	buf, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}

		return nil, errors.Wrap(err, "os.ReadFile()")
	}

	creds := &Credentials{}
	if err := s.sc.Decode(blobName, string(buf), creds); err != nil {
		return &Credentials{}, nil
	}

	return creds, nil
}

// StoreToken persists the bearer token, preserving any stored user record.
func (s *FileStore) StoreToken(token *oauth2.Token) error {
	creds, err := s.Load()
	if err != nil {
		return err
	}
	creds.Token = token

	return s.write(creds)
}

// StoreUser persists the user record, preserving any stored token.
func (s *FileStore) StoreUser(user *api.User) error {
	creds, err := s.Load()
	if err != nil {
		return err
	}
	creds.User = user

	return s.write(creds)
}

// Clear removes all persisted credential state. Clearing an empty store is
// not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "os.Remove()")
	}

	return nil
}

func (s *FileStore) write(creds *Credentials) error {
	encoded, err := s.sc.Encode(blobName, creds)
	if err != nil {
		return errors.Wrap(err, "securecookie.SecureCookie.Encode()")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "os.MkdirAll()")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(encoded), 0o600); err != nil {
		return errors.Wrap(err, "os.WriteFile()")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "os.Rename()")
	}

	return nil
}
