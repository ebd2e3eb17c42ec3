package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// tokenStore keeps the bearer token between invocations. Deleting the
// file is the whole of logging out.
type tokenStore struct {
	path string
}

func (s tokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s tokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

// Delete reports whether a token was present.
func (s tokenStore) Delete() (bool, error) {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
