package priority

import "testing"

func TestForEvent(t *testing.T) {
	cases := []struct {
		band uint32
		want int
	}{
		{0, 94},
		{2, 92},
		{5, 89},
	}
	for _, c := range cases {
		if got := ForEvent(c.band); got != c.want {
			t.Fatalf("ForEvent(%d) = %d, want %d", c.band, got, c.want)
		}
	}
}
