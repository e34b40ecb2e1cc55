package util

import "testing"

func TestGenerateTrackingID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateTrackingID()
		if len(id) != TrackingIDLength {
			t.Fatalf("tracking ID %q has length %d, want %d", id, len(id), TrackingIDLength)
		}
		for _, c := range id {
			if c < '0' || c > '9' {
				t.Fatalf("tracking ID %q contains non-digit %q", id, c)
			}
		}
		if id[0] == '0' {
			t.Fatalf("tracking ID %q should not start with zero", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Error("generator should produce varying IDs")
	}
}

func TestGenerateRandomDigits(t *testing.T) {
	d := GenerateRandomDigits(4)
	if len(d) != 4 {
		t.Fatalf("got length %d, want 4", len(d))
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			t.Fatalf("%q contains non-digit %q", d, c)
		}
	}
}
