package scroll

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name                  string
		y, height, clientSize float64
		want                  float64
	}{
		{"top", 0, 2000, 1000, 0},
		{"halfway", 500, 2000, 1000, 50},
		{"bottom", 1000, 2000, 1000, 100},
		{"overscroll", 1200, 2000, 1000, 100},
		{"negative", -30, 2000, 1000, 0},
		{"fits viewport", 0, 800, 1000, 0},
		{"exact fit", 0, 1000, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.y, tt.height, tt.clientSize); got != tt.want {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBar(t *testing.T) {
	if got := Bar(50, 80); got != 40 {
		t.Errorf("Bar(50, 80) = %d, want 40", got)
	}
	if got := Bar(100, 80); got != 80 {
		t.Errorf("Bar(100, 80) = %d, want 80", got)
	}
	if got := Bar(10, 0); got != 0 {
		t.Errorf("Bar(10, 0) = %d, want 0", got)
	}
}
