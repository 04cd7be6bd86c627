// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultMaxEntries bounds the memory medium. It is sized so that a session
// never reaches it in practice.
const DefaultMaxEntries = 1 << 16

var errDropped = errors.New("entry rejected by memory medium")

// Memory is an in-process medium backed by ristretto. Its session is the
// lifetime of the process.
type Memory struct {
	rc *ristretto.Cache[string, string]
}

// NewMemory creates a memory medium holding up to maxEntries entries. A
// non-positive maxEntries selects DefaultMaxEntries.
func NewMemory(maxEntries int64) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Cost is one per entry, so MaxCost counts entries.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{rc: rc}, nil
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	v, ok := m.rc.Get(key)
	return v, ok, nil
}

// SetItem stores value with a cost of one and waits for the write to land
// so that an immediate GetItem sees it.
func (m *Memory) SetItem(_ context.Context, key, value string) error {
	if !m.rc.Set(key, value, 1) {
		return errDropped
	}
	m.rc.Wait()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.rc.Clear()
	return nil
}

func (m *Memory) Close() error {
	m.rc.Close()
	return nil
}
