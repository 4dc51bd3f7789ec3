package nswing

import (
	"fmt"
	"math"
)

// Nesting describes how one child level sits inside its parent: the
// parent-index bounding box it occupies, the integer refinement ratio
// (equal in space and time per §3), and the jump-time hold/resample gate.
type Nesting struct {
	LLCol, LLRow int // lower-left parent cell indices bounding the child
	URCol, URRow int // upper-right parent cell indices bounding the child

	IncRatio int // parent.x_inc / child.x_inc == parent.y_inc / child.y_inc

	// JumpTime, when > 0, holds this child out of the schedule until the
	// global clock reaches it; on first reach the child is bicubically
	// resampled from the parent before resuming (run_jump_time).
	JumpTime float64
	jumped   bool
}

// Validate checks the nesting compatibility invariants from §3: the
// refinement ratio must be an integer >= 2, identical in x and y (encoded
// here as the single IncRatio field, computed by the caller from both
// axes and required to agree), and the child bounding box must fit inside
// the parent.
func (n *Nesting) Validate(parent, child *GridHeader) error {
	if n.IncRatio < 2 {
		return fmt.Errorf("nesting: refinement ratio must be >= 2, got %d", n.IncRatio)
	}
	rx := parent.XInc / child.XInc
	ry := parent.YInc / child.YInc
	if !nearInt(rx, float64(n.IncRatio)) || !nearInt(ry, float64(n.IncRatio)) {
		return fmt.Errorf("nesting: refinement ratio mismatch: x=%v y=%v declared=%d", rx, ry, n.IncRatio)
	}
	if n.LLCol < 0 || n.LLRow < 0 || n.URCol >= parent.NX || n.URRow >= parent.NY {
		return fmt.Errorf("nesting: child bounding box (%d,%d)-(%d,%d) outside parent %dx%d",
			n.LLCol, n.LLRow, n.URCol, n.URRow, parent.NX, parent.NY)
	}
	if n.URCol <= n.LLCol || n.URRow <= n.LLRow {
		return fmt.Errorf("nesting: degenerate child bounding box")
	}
	wantNX := (n.URCol-n.LLCol)*n.IncRatio + 1
	wantNY := (n.URRow-n.LLRow)*n.IncRatio + 1
	if child.NX != wantNX || child.NY != wantNY {
		return fmt.Errorf("nesting: child size %dx%d inconsistent with footprint*ratio+1 = %dx%d",
			child.NX, child.NY, wantNX, wantNY)
	}
	return nil
}

// nearInt reports whether v equals want to within floating-point rounding
// error, e.g. a computed refinement ratio against the declared IncRatio.
func nearInt(v, want float64) bool {
	return math.Abs(v-want) < 1e-6
}

// isNearInteger reports whether v is within rounding error of some integer,
// regardless of which one.
func isNearInteger(v float64) bool {
	return math.Abs(v-math.Round(v)) < 1e-6
}

// ValidateTimeStep enforces the integer sub-stepping invariant
// Δt_{k-1} mod Δt_k == 0, accepting a ratio within 1e-6 of an integer to
// absorb floating-point rounding.
func (n *Nesting) ValidateTimeStep(parentDt, childDt float64) error {
	ratio := parentDt / childDt
	if !isNearInteger(ratio) {
		return fmt.Errorf("nesting: Δt_parent/Δt_child = %v is not an integer", ratio)
	}
	return nil
}

// ShouldHold reports whether the child should be skipped this global step
// because its jump time has not yet been reached.
func (n *Nesting) ShouldHold(globalTime float64) bool {
	return n.JumpTime > 0 && globalTime < n.JumpTime && !n.jumped
}

// MarkJumped records that the child has reached its jump time and been
// resampled; ShouldHold returns false from then on regardless of clock.
func (n *Nesting) MarkJumped() { n.jumped = true }
