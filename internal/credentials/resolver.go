// Package credentials resolves API secrets from a fixed precedence of sources.
package credentials

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"neurochat/internal/logger"
)

// Source looks up a secret by name. It returns "" when it has no value.
type Source interface {
	Name() string
	Lookup(key string) string
}

// Resolver consults its sources in order; the first non-empty value wins.
type Resolver struct {
	sources []Source
}

// NewResolver returns a resolver over sources, highest precedence first.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Default is the standard precedence: application config, then the process
// environment, then the secrets file at envFile.
func Default(cfg Lookuper, envFile string) *Resolver {
	return NewResolver(ConfigSource{cfg: cfg}, EnvSource{}, FileSource{Path: envFile})
}

// Resolve returns the cleaned value for key and the source that supplied it.
func (r *Resolver) Resolve(key string) (value, source string, ok bool) {
	for _, src := range r.sources {
		v := clean(src.Lookup(key))
		if v != "" {
			logger.Debug("credential resolved", "key", key, "source", src.Name(), "length", len(v))
			return v, src.Name(), true
		}
	}
	logger.Debug("credential not found", "key", key)
	return "", "", false
}

// clean strips surrounding whitespace and any line breaks a pasted key picked up.
func clean(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "\n", "")
	return strings.ReplaceAll(v, "\r", "")
}

// Lookuper is satisfied by *config.Config.
type Lookuper interface {
	Lookup(key string) string
}

// ConfigSource reads the loaded application configuration.
type ConfigSource struct {
	cfg Lookuper
}

func (s ConfigSource) Name() string { return "config" }

func (s ConfigSource) Lookup(key string) string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.Lookup(key)
}

// EnvSource reads the process environment.
type EnvSource struct{}

func (EnvSource) Name() string { return "environment" }

func (EnvSource) Lookup(key string) string { return os.Getenv(key) }

// FileSource parses a dotenv file on every lookup so a key added while the
// server runs is picked up. A leading UTF-8 BOM is ignored.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Lookup(key string) string {
	if s.Path == "" {
		return ""
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("read secrets file failed", "path", s.Path, "err", err)
		}
		return ""
	}
	values, err := godotenv.Unmarshal(strings.TrimPrefix(string(data), "\uFEFF"))
	if err != nil {
		logger.Warn("parse secrets file failed", "path", s.Path, "err", err)
		return ""
	}
	return values[key]
}
