package progress

import "testing"

func TestFraction(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        float64
	}{
		{"zero total", 3, 0, 0},
		{"nothing done", 0, 4, 0},
		{"half", 2, 4, 0.5},
		{"complete", 4, 4, 1},
		{"overshoot", 9, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fraction(tt.done, tt.total); got != tt.want {
				t.Errorf("Fraction(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
			}
		})
	}
}

func TestTotalSteps(t *testing.T) {
	if got := TotalSteps(3); got != 8 {
		t.Errorf("TotalSteps(3) = %d, want 8", got)
	}
}

func TestTrackerNeverExceedsTotal(t *testing.T) {
	for _, slides := range []int{1, 2, 5, 17} {
		total := TotalSteps(slides)
		var got []float64
		tr := NewTracker(total, func(f float64) { got = append(got, f) })

		for i := 0; i < total+5; i++ {
			tr.Tick()
		}

		if len(got) != total {
			t.Fatalf("slides=%d: callback invoked %d times, want %d", slides, len(got), total)
		}
		for i := 1; i < len(got); i++ {
			if got[i] < got[i-1] {
				t.Fatalf("slides=%d: progress decreased at %d: %v", slides, i, got)
			}
		}
		if got[len(got)-1] != 1 {
			t.Errorf("slides=%d: final progress = %v, want 1", slides, got[len(got)-1])
		}
		if tr.Done() != total {
			t.Errorf("Done() = %d, want %d", tr.Done(), total)
		}
	}
}

func TestTrackerNilFunc(t *testing.T) {
	tr := NewTracker(2, nil)
	if f := tr.Tick(); f != 0.5 {
		t.Errorf("Tick() = %v, want 0.5", f)
	}
}
