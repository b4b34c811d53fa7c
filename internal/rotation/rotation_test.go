package rotation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNextWrapsAround(t *testing.T) {
	idx := New(5)

	var got []int
	for range 7 {
		got = append(got, idx.Next("happy"))
	}

	want := []int{1, 2, 3, 4, 5, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next sequence = %v, want %v", got, want)
		}
	}
}

func TestNextReturnsToStartAfterMax(t *testing.T) {
	for _, max := range []int{1, 3, 10} {
		t.Run(fmt.Sprintf("max=%d", max), func(t *testing.T) {
			idx := New(max)
			idx.Next("k")
			start := idx.Peek("k")

			for range max {
				c := idx.Next("k")
				if c < Base || c > max {
					t.Fatalf("cursor %d outside [%d, %d]", c, Base, max)
				}
			}
			if got := idx.Peek("k"); got != start {
				t.Errorf("after %d calls cursor = %d, want %d", max, got, start)
			}
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	idx := New(5)
	idx.Next("happy")
	idx.Next("happy")

	if got := idx.Next("sad"); got != 1 {
		t.Errorf("first cursor for new key = %d, want 1", got)
	}
	if got := idx.Peek("happy"); got != 3 {
		t.Errorf("happy cursor = %d, want 3", got)
	}
}

func TestReset(t *testing.T) {
	idx := New(5)
	idx.Next("k")
	idx.Next("k")
	idx.Reset("k")

	if got := idx.Next("k"); got != Base {
		t.Errorf("Next after Reset = %d, want %d", got, Base)
	}
}

func TestNewClampsMax(t *testing.T) {
	idx := New(0)
	if idx.Max() != Base {
		t.Errorf("Max() = %d, want %d", idx.Max(), Base)
	}
	if idx.Next("k") != 1 || idx.Next("k") != 1 {
		t.Error("single-slot index should always return 1")
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name string
		used int
		want int
	}{
		{"first", 1, 2},
		{"middle", 3, 4},
		{"wraps after max", 5, 1},
		{"below base", 0, 2},
		{"above max", 9, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := New(5)
			idx.Advance("k", tt.used)
			if got := idx.Peek("k"); got != tt.want {
				t.Errorf("cursor after Advance(%d) = %d, want %d", tt.used, got, tt.want)
			}
		})
	}
}

func TestDo(t *testing.T) {
	t.Run("success leaves cursor in place", func(t *testing.T) {
		idx := New(5)
		calls := 0
		got, used, err := Do(idx, "k", func(c int) (int, error) {
			calls++
			return c, nil
		})
		if err != nil || got != 1 || used != 1 || calls != 1 {
			t.Fatalf("Do = (%d, %d, %v) after %d calls", got, used, err, calls)
		}
		if idx.Peek("k") != 1 {
			t.Errorf("cursor = %d, want 1 until Advance", idx.Peek("k"))
		}

		idx.Advance("k", used)
		if idx.Peek("k") != 2 {
			t.Errorf("cursor after Advance = %d, want 2", idx.Peek("k"))
		}
	})

	t.Run("out of range retries once from base", func(t *testing.T) {
		idx := New(5)
		idx.Advance("k", 3) // cursor now 4

		var seen []int
		got, used, err := Do(idx, "k", func(c int) (int, error) {
			seen = append(seen, c)
			if c > 2 {
				return 0, ErrOutOfRange
			}
			return c, nil
		})
		if err != nil {
			t.Fatalf("Do unexpected error: %v", err)
		}
		if got != 1 || used != Base {
			t.Errorf("Do = (%d, %d), want (1, %d)", got, used, Base)
		}
		if len(seen) != 2 || seen[0] != 4 || seen[1] != 1 {
			t.Errorf("cursors seen = %v, want [4 1]", seen)
		}
		if idx.Peek("k") != 4 {
			t.Errorf("cursor = %d, want 4 until Advance", idx.Peek("k"))
		}

		idx.Advance("k", used)
		if idx.Peek("k") != 2 {
			t.Errorf("cursor after Advance = %d, want 2", idx.Peek("k"))
		}
	})

	t.Run("second out of range surfaces", func(t *testing.T) {
		idx := New(5)
		calls := 0
		_, _, err := Do(idx, "k", func(int) (int, error) {
			calls++
			return 0, fmt.Errorf("page 9: %w", ErrOutOfRange)
		})
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("err = %v, want ErrOutOfRange", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("other errors do not retry", func(t *testing.T) {
		idx := New(5)
		boom := errors.New("boom")
		calls := 0
		_, _, err := Do(idx, "k", func(int) (int, error) {
			calls++
			return 0, boom
		})
		if !errors.Is(err, boom) || calls != 1 {
			t.Errorf("Do = %v after %d calls", err, calls)
		}
	})
}

func TestConcurrentNext(t *testing.T) {
	idx := New(5)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := idx.Next("k")
			if c < 1 || c > 5 {
				t.Errorf("cursor %d out of range", c)
			}
		}()
	}
	wg.Wait()

	// 50 advances on a cycle of 5 lands back on the start.
	if got := idx.Peek("k"); got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
}
