// Package storage keeps uploaded images in a flat directory on local disk.
//
// A file exists if and only if it is present in the directory; there is no
// registry of names kept in memory.
package storage

import (
	"crypto/sha256"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"uimage/internal/config"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrConflict = errors.New("file already exists")
)

// Store resolves its directories once; handlers share it.
type Store struct {
	root  string
	cdn   string
	index string
	newID func() string
}

// Open makes sure the storage root and its cdn directory exist.
// The server cannot work without them, so the error is for the caller to act on.
func Open(cfg config.Config) (*Store, error) {
	s := &Store{
		root:  cfg.Root,
		cdn:   cfg.CDNDir(),
		index: cfg.IndexPath(),
		newID: uuid.NewString,
	}
	if err := os.MkdirAll(s.cdn, 0755); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}
	return s, nil
}

// Root is the storage root directory.
func (s *Store) Root() string { return s.root }

// Dir is where uploaded files live.
func (s *Store) Dir() string { return s.cdn }

// Save writes data under a freshly generated "<uuid>.<ext>" name and returns
// that name.
//
// Identifiers are random version 4 UUIDs (122 random bits), so a collision is
// not expected in practice; should one happen anyway, ErrConflict is returned
// and the existing file stays untouched.
func (s *Store) Save(ext string, data []byte) (string, error) {
	name := s.newID() + "." + ext
	dst := filepath.Join(s.cdn, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", errors.Wrap(ErrConflict, name)
		}
		return "", errors.Wrap(err, "creating file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(dst)
		return "", errors.Wrapf(err, "writing %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", errors.Wrapf(err, "closing %s", name)
	}
	return name, nil
}

// OpenFile opens a stored file by its slash-separated path relative to the
// cdn directory. The path can not escape that directory. Directories are
// reported as ErrNotFound.
func (s *Store) OpenFile(rel string) (*os.File, os.FileInfo, error) {
	clean := path.Clean("/" + rel)
	full := filepath.Join(s.cdn, filepath.FromSlash(clean))

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(ErrNotFound, clean)
		}
		return nil, nil, errors.Wrapf(err, "opening %s", clean)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "stat %s", clean)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, errors.Wrap(ErrNotFound, clean)
	}
	return f, info, nil
}

// Index returns the landing page override, or ErrNotFound if there is none.
func (s *Store) Index() ([]byte, error) {
	b, err := os.ReadFile(s.index)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "reading index page")
	}
	return b, nil
}

// Checksum calculates the SHA-256 hash of everything r yields.
func Checksum(r io.Reader) ([32]byte, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return [32]byte{}, err
	}

	var checksum [32]byte
	copy(checksum[:], hash.Sum(nil))
	return checksum, nil
}
