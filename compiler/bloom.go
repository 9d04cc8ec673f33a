// Copyright 2025 The Rivaas Authors
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

package compiler

// FNV-1a 64-bit constants, hashed inline so strings need no []byte copy.
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

// hashString computes the FNV-1a hash of s.
func hashString(s string) uint64 {
	h := uint64(fnvOffsetBasis)
	for i := range len(s) {
		h ^= uint64(s[i])
		h *= fnvPrime
	}

	return h
}

// bloomFilter answers "definitely absent" or "possibly present" for static
// paths. Each hash function is the base FNV-1a hash XORed with a seed.
type bloomFilter struct {
	bits  []uint64
	size  uint64
	seeds []uint64
}

func newBloomFilter(size uint64, numHashFuncs int) *bloomFilter {
	bf := &bloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is capped at 10
		bf.seeds[i] = uint64(i + 1)
	}

	return bf
}

func (bf *bloomFilter) add(s string) {
	base := hashString(s)
	for _, seed := range bf.seeds {
		pos := (base ^ seed) % bf.size
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// test returns false only when s was never added.
func (bf *bloomFilter) test(s string) bool {
	base := hashString(s)
	for _, seed := range bf.seeds {
		pos := (base ^ seed) % bf.size
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}

	return true
}
