package nswing

import "testing"

func TestNestingValidateRejectsRatioMismatch(t *testing.T) {
	parent := &GridHeader{NX: 20, NY: 20, XInc: 4, YInc: 4}
	child := &GridHeader{NX: 13, NY: 13, XInc: 1, YInc: 2}
	n := &Nesting{LLCol: 2, LLRow: 2, URCol: 5, URRow: 5, IncRatio: 4}
	if err := n.Validate(parent, child); err == nil {
		t.Fatal("expected an error: y refinement ratio 2 differs from x ratio 4")
	}
}

func TestNestingValidateRejectsWrongDeclaredRatio(t *testing.T) {
	// True refinement ratio is 4 (4/1), but the descriptor declares 7.
	// A prior nearInt bug accepted this because 4 is near *an* integer,
	// never checking it against the declared ratio.
	parent := &GridHeader{NX: 20, NY: 20, XInc: 4, YInc: 4}
	child := &GridHeader{NX: 13, NY: 13, XInc: 1, YInc: 1}
	n := &Nesting{LLCol: 2, LLRow: 2, URCol: 5, URRow: 5, IncRatio: 7}
	err := n.Validate(parent, child)
	if err == nil {
		t.Fatal("expected an error: declared ratio 7 does not match computed ratio 4")
	}
}

func TestNestingValidateAccepts(t *testing.T) {
	parent := &GridHeader{NX: 20, NY: 20, XInc: 4, YInc: 4}
	child := &GridHeader{NX: 13, NY: 13, XInc: 1, YInc: 1} // (5-2)*4+1 = 13
	n := &Nesting{LLCol: 2, LLRow: 2, URCol: 5, URRow: 5, IncRatio: 4}
	if err := n.Validate(parent, child); err != nil {
		t.Fatalf("expected a valid nesting descriptor, got %v", err)
	}
}

func TestNestingValidateTimeStep(t *testing.T) {
	n := &Nesting{IncRatio: 4}
	if err := n.ValidateTimeStep(0.4, 0.1); err != nil {
		t.Errorf("0.4/0.1 is an exact integer ratio, got error %v", err)
	}
	if err := n.ValidateTimeStep(0.4, 0.3); err == nil {
		t.Error("0.4/0.3 is not an integer ratio, expected an error")
	}
}

func TestShouldHold(t *testing.T) {
	n := &Nesting{JumpTime: 10}
	if !n.ShouldHold(5) {
		t.Error("should hold before jump time")
	}
	if n.ShouldHold(15) {
		t.Error("should not hold once global time passes jump time (unmarked)")
	}
	n.MarkJumped()
	if n.ShouldHold(5) {
		t.Error("should never hold again once jumped")
	}
}
