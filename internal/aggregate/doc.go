// Package aggregate computes the read-only summaries shown by the dashboard.
//
// Every function is pure and depends only on group keys, never on row
// positions, so shuffling the input rows leaves the output unchanged. Sums
// are taken over sorted values to keep floating point results identical
// across permutations.
package aggregate
