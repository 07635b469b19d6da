// Package symbolic provides the deterministic symbolic kernel that the
// metric tooling is built on.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Deterministic simplification and stable, canonical output
//   - Undefined functions of several variables and unevaluated partial
//     derivatives, so metric components such as M(t, r) can be carried
//     through differentiation and substitution
//   - Base one-forms and tensor products, with conversion between a
//     bilinear form and its matrix over a chart's basis
//   - JSON and LaTeX output for tool and agent integration
//
// Simplification is rule-based, not canonical in the computer-algebra
// sense: like terms and like powers are combined, numbers are folded and
// integer powers are distributed over products, but rational functions are
// not cancelled.
package symbolic
