// Package credential resolves and persists the API credential used by the
// chat client. The credential is kept in plaintext.
package credential

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	loggerpkg "github.com/minhyannv/claude-chat/pkg/logger"
)

var (
	// ErrEmptyCredential is returned when persisting a blank credential.
	ErrEmptyCredential = errors.New("credential is empty")
	// ErrConfigIO wraps failures writing the credential file.
	ErrConfigIO = errors.New("credential file I/O")
)

// Record is the on-disk credential file layout.
type Record struct {
	APIKey string `json:"api_key"`
}

// Options configures a Store.
type Options struct {
	// Path of the credential file. Required.
	Path string
	// EnvVar is checked before the file. Empty disables the lookup.
	EnvVar string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	Logger loggerpkg.Logger
}

// Store resolves a credential from the environment, falling back to a file.
type Store struct {
	path   string
	envVar string
	getenv func(string) string
	logger loggerpkg.Logger
}

// New builds a Store.
func New(opts Options) (*Store, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, errors.New("credential path is required")
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Store{
		path:   path,
		envVar: strings.TrimSpace(opts.EnvVar),
		getenv: getenv,
		logger: loggerpkg.OrNop(opts.Logger),
	}, nil
}

// Path returns the credential file location.
func (s *Store) Path() string { return s.path }

// EnvVar returns the environment variable consulted before the file, or ""
// when the lookup is disabled.
func (s *Store) EnvVar() string { return s.envVar }

// Resolve returns the credential and true when one is available. The
// environment variable wins over the file. An unreadable or malformed file
// counts as no credential.
func (s *Store) Resolve() (string, bool) {
	if s.envVar != "" {
		if v := strings.TrimSpace(s.getenv(s.envVar)); v != "" {
			s.logger.Debug("credential resolved", map[string]any{
				"source": "env",
				"env":    s.envVar,
				"key":    Mask(v),
			})
			return v, true
		}
	}

	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("credential file not found", map[string]any{"path": s.path})
		return "", false
	}
	if err != nil {
		s.logger.Warn("credential file unreadable", map[string]any{
			"path":  s.path,
			"error": err.Error(),
		})
		return "", false
	}

	var rec Record
	if err := json.Unmarshal(content, &rec); err != nil {
		s.logger.Warn("credential file malformed", map[string]any{
			"path":  s.path,
			"error": err.Error(),
		})
		return "", false
	}

	key := rec.APIKey
	if strings.TrimSpace(key) == "" {
		return "", false
	}
	s.logger.Debug("credential resolved", map[string]any{
		"source": "file",
		"path":   s.path,
		"key":    Mask(key),
	})
	return key, true
}

// Persist overwrites the credential file with a single-entry record. The
// value is stored as given so Resolve returns it unchanged.
func (s *Store) Persist(credential string) error {
	if strings.TrimSpace(credential) == "" {
		return ErrEmptyCredential
	}

	data, err := json.Marshal(Record{APIKey: credential})
	if err != nil {
		return fmt.Errorf("encode credential record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrConfigIO, dir, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrConfigIO, s.path, err)
	}

	s.logger.Info("credential saved", map[string]any{
		"path": s.path,
		"key":  Mask(credential),
	})
	return nil
}

// PromptAndPersist asks for a credential on out, reads one line from in and
// persists it. Blank input returns false and leaves the file untouched.
// Cancelling ctx abandons the read and returns an error wrapping ctx.Err().
func (s *Store) PromptAndPersist(ctx context.Context, in io.Reader, out io.Writer) (string, bool, error) {
	if in == nil {
		return "", false, errors.New("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, _ = fmt.Fprint(out, "Enter your Anthropic API key: ")
	line, err := readLine(ctx, in)
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}

	credential := strings.TrimSpace(line)
	if credential == "" {
		return "", false, nil
	}
	if err := s.Persist(credential); err != nil {
		return "", false, err
	}
	return credential, true, nil
}

type lineResult struct {
	line string
	err  error
}

// readLine reads up to the first newline. EOF ends the line. The read
// happens on its own goroutine so ctx can end the wait; an abandoned reader
// exits when in is closed.
func readLine(ctx context.Context, in io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	got := make(chan lineResult, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		got <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-got:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", r.err
		}
		return r.line, nil
	}
}
