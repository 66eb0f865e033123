package domain

import "testing"

func TestPosition_Manhattan(t *testing.T) {
	tests := []struct {
		p, q Position
		want int
	}{
		{Position{0, 0}, Position{3, 0}, 3},
		{Position{0, 0}, Position{0, 4}, 4},
		{Position{2, 2}, Position{2, 2}, 0},
		{Position{-1, 5}, Position{2, -3}, 11},
	}
	for _, tt := range tests {
		if got := tt.p.Manhattan(tt.q); got != tt.want {
			t.Errorf("%v.Manhattan(%v) = %d, want %d", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestPosition_StepToward(t *testing.T) {
	tests := []struct {
		p, target Position
		want      Position
	}{
		{Position{0, 0}, Position{3, 0}, Position{1, 0}},
		{Position{5, 5}, Position{1, 9}, Position{-1, 1}},
		{Position{2, 2}, Position{2, 2}, Position{0, 0}},
		{Position{4, 0}, Position{4, -7}, Position{0, -1}},
	}
	for _, tt := range tests {
		if got := tt.p.StepToward(tt.target); got != tt.want {
			t.Errorf("%v.StepToward(%v) = %v, want %v", tt.p, tt.target, got, tt.want)
		}
	}
}
