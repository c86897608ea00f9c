// Package adjacency builds the fixed neighbor offsets used by every relaxation
// step of the forest engine.
//
// An Offsets value is the ordered list of integer coordinate deltas whose
// Euclidean norm is at most a radius, in N dimensions:
//
//	radius 1   in 2D → 4 neighbors  (Conn4)
//	radius √2  in 2D → 8 neighbors  (Conn8)
//	radius 1   in 3D → 6 neighbors  (Conn6)
//	radius √3  in 3D → 26 neighbors (Conn26)
//
// The order is deterministic: ascending squared norm, then by coordinates with
// the last axis most significant. Offsets are created once per session and
// shared read-only by concurrent engine runs.
package adjacency
