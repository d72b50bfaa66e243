// SPDX-License-Identifier: MIT

// Package sample provides the numeric sample type shared by the design
// generators and the sensitivity estimators.
//
// A Sample is an ordered sequence of points of a fixed dimension, stored
// row-major in a single flat buffer:
//
//   - rows are points (Size), columns are coordinates (Dimension),
//   - View(lo, hi) exposes a contiguous range of points without copying,
//   - Pick(indices) gathers points into a fresh Sample (bootstrap resampling),
//   - ColumnStats computes per-coordinate mean, variance and standard deviation
//     with the unbiased (n-1) denominator.
//
// Errors follow the package sentinel policy: every failure is one of the Err*
// values in errors.go, optionally wrapped with the operation name, and callers
// match with errors.Is. Public indexers return errors instead of panicking.
//
// Complexity:
//
//	At/Set/Row/View are O(1); Column and Pick are O(n); ColumnStats is O(n·d).
package sample
