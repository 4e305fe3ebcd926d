// Package storage persists uploaded documents on local disk and serves them
// back through stable public URLs.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type LocalStore struct {
	Dir     string // directory files are written to
	BaseURL string // public prefix, ex: http://host:port
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the file under a generated unique name and returns the stored
// name and its relative storage path.
func (s *LocalStore) Save(originalName string, r io.Reader) (fileName, storagePath string, err error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", "", err
	}
	safe := unsafeChars.ReplaceAllString(originalName, "_")
	fileName = fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe)
	storagePath = filepath.Join(s.Dir, fileName)
	f, err := os.Create(storagePath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(storagePath)
		return "", "", err
	}
	return fileName, storagePath, nil
}

// PublicURL returns the download URL for a stored file name.
func (s *LocalStore) PublicURL(fileName string) string {
	return s.BaseURL + "/uploads/" + fileName
}

// Remove deletes the stored file. A missing file is not an error: the metadata
// row is the source of truth and the cleanup is best-effort.
func (s *LocalStore) Remove(storagePath string) error {
	err := os.Remove(storagePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
