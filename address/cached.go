// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package address

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"

	"github.com/luxfi/tokenbridge/cache"
)

type derivation struct {
	seeds   [][]byte
	program PublicKey
}

// CachedDeriver memoizes a Deriver. Derivations are pure, so a cached
// result is always the one inner would return.
type CachedDeriver struct {
	inner Deriver
	cache *cache.FIFO[[32]byte, PublicKey]
}

// NewCachedDeriver caches up to size results of inner.
func NewCachedDeriver(inner Deriver, size int) *CachedDeriver {
	return &CachedDeriver{
		inner: inner,
		cache: cache.NewFIFO[[32]byte, PublicKey](size),
	}
}

func (c *CachedDeriver) Derive(seeds [][]byte, program PublicKey) (PublicKey, error) {
	d := derivation{seeds: seeds, program: program}
	return c.cache.Get(d.key(), func([32]byte) (PublicKey, error) {
		return c.inner.Derive(d.seeds, d.program)
	})
}

// Len returns the number of cached derivations.
func (c *CachedDeriver) Len() int {
	return c.cache.Len()
}

// key length-prefixes every seed so distinct seed lists never collide.
func (d derivation) key() [32]byte {
	h := sha256.New()
	h.Write(d.program[:])
	var n [4]byte
	for _, seed := range d.seeds {
		binary.BigEndian.PutUint32(n[:], uint32(len(seed)))
		h.Write(n[:])
		h.Write(seed)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
