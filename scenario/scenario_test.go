package scenario

import "testing"

func TestLoadRectangularTank(t *testing.T) {
	p, err := Load("testdata/01_rectangular_tank.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "rectangular_tank" {
		t.Errorf("Name = %q, want rectangular_tank", p.Name)
	}
	if p.Grid.NX != 100 || p.Grid.NY != 100 {
		t.Errorf("Grid = %dx%d, want 100x100", p.Grid.NX, p.Grid.NY)
	}
	if !p.Linear {
		t.Error("expected linear mode for the rectangular tank scenario")
	}
}

func TestLoadAllBundledScenarios(t *testing.T) {
	names := []string{
		"testdata/01_rectangular_tank.toml",
		"testdata/02_nested_pulse_crossing.toml",
		"testdata/03_geographic_radial.toml",
		"testdata/04_wetdry_shoreline.toml",
		"testdata/05_parallel_determinism.toml",
		"testdata/06_cfl_rejection.toml",
	}
	for _, n := range names {
		if _, err := Load(n); err != nil {
			t.Errorf("Load(%s): %v", n, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does_not_exist.toml"); err == nil {
		t.Error("expected an error loading a nonexistent preset")
	}
}
