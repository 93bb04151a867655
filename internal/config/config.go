package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 5_000_000

	cdnDir    = "cdn"
	indexFile = "index.html"
)

// Config is built once at startup and shared read-only by every handler.
type Config struct {
	Addr           string
	Root           string // storage root, <working-dir>/www/static by default
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// New returns the default layout rooted at workdir.
func New(workdir string) Config {
	return Config{
		Addr:           DefaultAddr,
		Root:           filepath.Join(workdir, "www", "static"),
		MaxUploadBytes: DefaultMaxUploadBytes,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Default is New for the process's working directory.
func Default() (Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}
	return New(wd), nil
}

// CDNDir holds uploaded files.
func (c Config) CDNDir() string {
	return filepath.Join(c.Root, cdnDir)
}

// IndexPath is the optional landing page override.
func (c Config) IndexPath() string {
	return filepath.Join(c.Root, indexFile)
}
