package catalog

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		n    int
		want int
	}{
		{name: "shorter than cap", in: []int{1, 2}, n: 10, want: 2},
		{name: "exactly cap", in: make([]int, 10), n: 10, want: 10},
		{name: "longer than cap", in: make([]int, 20), n: 10, want: 10},
		{name: "nil", in: nil, n: 10, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Truncate(tt.in, tt.n)); got != tt.want {
				t.Errorf("len(Truncate()) = %d, want %d", got, tt.want)
			}
		})
	}
}
