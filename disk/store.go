// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package disk persists certificate artifacts to a destination directory
// with the permission bits TLS consumers expect.
package disk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/pkg/errors"
)

const (
	// keyFileMode keeps private keys readable by the owner only.
	keyFileMode fs.FileMode = 0o600

	// certFileMode lets servers running under other accounts read
	// certificates and DH parameters.
	certFileMode fs.FileMode = 0o644

	dirMode fs.FileMode = 0o755
)

type store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ certkit.Store = (*store)(nil)

// NewStore returns a certkit.Store writing into dir, creating it if needed.
func NewStore(dir string) (certkit.Store, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, wrapPathErr(dir, err)
	}
	return &store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *store) SaveKey(ctx context.Context, name string, pem []byte) (string, error) {
	return s.write(ctx, name, pem, keyFileMode)
}

func (s *store) SaveCert(ctx context.Context, name string, pem []byte) (string, error) {
	return s.write(ctx, name, pem, certFileMode)
}

func (s *store) SaveDHParams(ctx context.Context, name string, pem []byte) (string, error) {
	return s.write(ctx, name, pem, certFileMode)
}

// write replaces the destination atomically: the content goes to a
// temporary file in the same directory first and is moved into place with
// a rename, so a concurrent reader never observes a partial artifact.
// Repeated writes overwrite cleanly. The destination path is held
// exclusively for the duration.
func (s *store) write(ctx context.Context, name string, content []byte, mode fs.FileMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	lock := s.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return "", wrapPathErr(path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", wrapPathErr(path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return "", wrapPathErr(path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", wrapPathErr(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", wrapPathErr(path, err)
	}

	return path, nil
}

func (s *store) pathLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[path] = lock
	}
	return lock
}

func wrapPathErr(path string, err error) error {
	return errors.Wrap(certkit.ErrPathUnwritable, fmt.Errorf("%s: %w", path, err))
}
