// Package metric represents spacetime metrics as a twoform and as the
// matching matrix over a coordinate chart, builds the standard metrics,
// and rewrites partial derivatives of metric components into physicist
// shorthand.
//
// A Metric is immutable once built. Inverse and Subs return new values;
// the inverse matrix is computed at most once per Metric and is safe to
// request from several goroutines.
package metric
