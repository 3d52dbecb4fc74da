/*
NAME
  hungarian_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package tracker

import (
	"math"
	"testing"
)

func TestMunkresMatchesSpecExample(t *testing.T) {
	cost := [][]float64{
		{0.1, 0.9},
		{0.9, 0.2},
	}
	assignment, total := munkres(cost)
	want := []int{0, 1}
	for i, v := range want {
		if assignment[i] != v {
			t.Errorf("assignment[%d] = %d, want %d", i, assignment[i], v)
		}
	}
	if math.Abs(total-0.3) > 1e-9 {
		t.Errorf("total cost = %v, want 0.3", total)
	}
}

func TestMunkresRectangularMoreRowsThanCols(t *testing.T) {
	cost := [][]float64{
		{1, 2},
		{2, 4},
		{3, 1},
	}
	assignment, _ := munkres(cost)
	seen := make(map[int]bool)
	for _, col := range assignment {
		if col < 0 {
			continue
		}
		if seen[col] {
			t.Fatalf("column %d assigned twice: %v", col, assignment)
		}
		seen[col] = true
	}
}
