package theme

import "testing"

func TestMode_StringAndClass(t *testing.T) {
	tests := []struct {
		mode  Mode
		str   string
		class string
	}{
		{Dark, "dark", "dark-mode"},
		{Light, "light", "light-mode"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.mode.ClassName(); got != tt.class {
			t.Errorf("ClassName() = %q, want %q", got, tt.class)
		}
	}
}

func TestDefaultIsDark(t *testing.T) {
	if Default != Dark {
		t.Fatalf("Default = %v, want dark", Default)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"dark", Dark, false},
		{"LIGHT", Light, false},
		{"  light ", Light, false},
		{"", Dark, true},
		{"sepia", Dark, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModeOr(t *testing.T) {
	if got := ModeOr("nope", Light); got != Light {
		t.Errorf("ModeOr fallback = %v, want light", got)
	}
	if got := ModeOr("dark", Light); got != Dark {
		t.Errorf("ModeOr(dark) = %v, want dark", got)
	}
}
