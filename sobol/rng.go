// SPDX-License-Identifier: MIT

// Package sobol - RNG utilities for bootstrap resampling.
//
// Goals:
//   - Determinism: same seed ⇒ identical intervals regardless of scheduling.
//   - Independence: every resample draws from its own derived stream, so
//     resamples can run on any goroutine in any order.
//
// Concurrency:
//   - *rand.Rand is NOT goroutine-safe; each resample owns its stream.
package sobol

import "math/rand/v2"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed uint64 = 1

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64 finalizer, so neighbouring stream ids are decorrelated.
//
// Complexity: O(1).
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// streamRNG returns the deterministic generator of resample stream for seed.
// Policy: seed==0 ⇒ defaultRNGSeed.
func streamRNG(seed, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	return rand.New(rand.NewPCG(deriveSeed(seed, stream), stream))
}

// drawReplicates fills dst with replicate indices drawn uniformly with replacement from [0, n).
//
// Complexity: O(len(dst)).
func drawReplicates(dst []int, n int, rng *rand.Rand) {
	for i := range dst {
		dst[i] = rng.IntN(n)
	}
}
