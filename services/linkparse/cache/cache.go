// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache is the badger-backed parse-result cache.
//
// Parsing is deterministic for a fixed dictionary, so a response can
// be keyed by a digest of the sentence text and the options that
// shaped it. Entries carry a TTL so dictionary upgrades age out stale
// results without an explicit flush.
//
// A nil *Cache is valid and behaves as a cache that never hits, so
// callers can disable caching without branching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/AleutianParse/services/linkparse/storage/badger"
)

// DefaultTTL is the entry lifetime when the caller does not choose.
const DefaultTTL = 24 * time.Hour

var meter = otel.Meter("linkparse.cache")

var (
	metricsOnce sync.Once
	hitTotal    metric.Int64Counter
	missTotal   metric.Int64Counter
)

func initMetrics() {
	metricsOnce.Do(func() {
		hitTotal, _ = meter.Int64Counter("linkparse_cache_hits_total",
			metric.WithDescription("Parse cache hits"))
		missTotal, _ = meter.Int64Counter("linkparse_cache_misses_total",
			metric.WithDescription("Parse cache misses"))
	})
}

// Key digests the sentence text and the normalized option parts into
// a cache key. Parts must be order-stable across requests.
func Key(text string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Cache stores serialized parse responses in BadgerDB with a TTL.
// Safe for concurrent use.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache over an open database. A non-positive ttl falls
// back to DefaultTTL.
func New(db *badger.DB, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	initMetrics()
	return &Cache{db: db, ttl: ttl, logger: logger}
}

// Get returns the cached value for key, reporting whether it was
// present. A nil cache always misses.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.db == nil {
		return nil, false, nil
	}

	var val []byte
	err := c.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badgerdb.ErrKeyNotFound):
		missTotal.Add(ctx, 1)
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	hitTotal.Add(ctx, 1)
	return val, true, nil
}

// Set stores val under key with the cache's TTL. A nil cache is a
// no-op.
func (c *Cache) Set(ctx context.Context, key string, val []byte) error {
	if c == nil || c.db == nil {
		return nil
	}

	err := c.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(key), val).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes an entry. A nil cache is a no-op.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.db == nil {
		return nil
	}

	err := c.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
