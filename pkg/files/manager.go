// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceNotFound is returned when a target file does not exist
	ErrSourceNotFound = errors.Base("source not found")

	// ErrSourceUnreadable is returned when a target file exists but cannot be read
	ErrSourceUnreadable = errors.Base("source unreadable")

	// ErrWriteFailure is returned when patched content could not be written
	ErrWriteFailure = errors.Base("write failure")
)

// 💾 FileManager handles the file system side of a patch run
type FileManager interface {
	// ReadFile reads a whole target file
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFileAtomic replaces path with content, leaving the original in
	// place if anything fails
	WriteFileAtomic(ctx context.Context, path string, content []byte) error

	// Backup copies path next to itself and returns the copy's path
	Backup(ctx context.Context, path string) (string, error)

	// Lock serializes read-modify-write cycles on path
	Lock(path string) (unlock func())
}

// 🔧 Manager is the default FileManager
type Manager struct {
	backupSuffix string

	mu    sync.Mutex
	locks map[string]*pathLock
}

// 🔒 pathLock is a reference-counted mutex for a single path
type pathLock struct {
	mu   sync.Mutex
	refs int
}

// 🏭 NewManager creates a new file manager
func NewManager() *Manager {
	return &Manager{
		backupSuffix: ".orig",
		locks:        make(map[string]*pathLock),
	}
}

// lockKey normalizes path so different spellings of one file share a lock
func lockKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Lock blocks until no other caller holds the lock for path.
func (m *Manager) Lock(path string) func() {
	key := lockKey(path)

	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &pathLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		defer m.mu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, key)
		}
	}
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, errors.Errorf("%w: %s: %s", ErrSourceUnreadable, path, err.Error())
	}
	if info.IsDir() {
		return nil, errors.Errorf("%w: %s is a directory", ErrSourceUnreadable, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrSourceUnreadable, path, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("read file")
	return content, nil
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return errors.Errorf("%w: %s is a directory", ErrWriteFailure, path)
		}
		mode = info.Mode().Perm()
	}

	// Write to a temp file in the same directory so the rename stays on one
	// file system
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".patchrc-*")
	if err != nil {
		return errors.Errorf("%w: creating temp file: %s", ErrWriteFailure, err.Error())
	}
	tempPath := tmp.Name()

	cleanup := func(stage string, err error) error {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("%w: %s: %s", ErrWriteFailure, stage, err.Error())
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup("writing temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup("syncing temp file", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup("setting file mode", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: closing temp file: %s", ErrWriteFailure, err.Error())
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("%w: renaming temp file: %s", ErrWriteFailure, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

func (m *Manager) Backup(ctx context.Context, path string) (string, error) {
	backupPath := path + m.backupSuffix
	if err := copyFile(path, backupPath); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("backed up file")
	return backupPath, nil
}

// Helper functions

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source file mode: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return destination.Close()
}
