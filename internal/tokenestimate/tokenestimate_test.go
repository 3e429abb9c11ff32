package tokenestimate

import "testing"

func TestEstimateDefaultDivisor(t *testing.T) {
	if got := Estimate("12345678", 0); got != 2 {
		t.Fatalf("got %d", got)
	}
}

func TestEstimateCeiling(t *testing.T) {
	if got := Estimate("123456789", 0); got != 3 {
		t.Fatalf("got %d", got)
	}
}

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate("", 0); got != 0 {
		t.Fatalf("got %d", got)
	}
}

func TestEstimateCountsCodePointsNotBytes(t *testing.T) {
	// "café" has 4 code points but 5 bytes (é is 2 bytes in UTF-8).
	got := Estimate("café", 4.0)
	if got != 1 {
		t.Fatalf("got %d", got)
	}
}

func TestEstimateCustomDivisor(t *testing.T) {
	if got := Estimate("12345678", 2.0); got != 4 {
		t.Fatalf("got %d", got)
	}
}

func TestEstimateMonotoneUnderConcatenation(t *testing.T) {
	u := "hello world"
	v := " this is more text"
	if Estimate(u+v, 0) < Estimate(u, 0) {
		t.Fatal("expected token estimate to be monotone under concatenation")
	}
}
