package nudge

import (
	"errors"
	"testing"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", MessageEmptyInput},
		{"whitespace", " \n\t ", MessageEmptyInput},
		{"short", "two sum", MessageShortInput},
		{"short padded", "   nine char   ", MessageShortInput},
		{"nine runes", "ééééééééé", MessageShortInput},
		{"ten runes", "éééééééééé", ""},
		{"ok", "How do I detect a cycle?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.text)
			if tt.want == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if MessageOf(err) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, MessageOf(err))
			}
		})
	}
}

func TestFitHeight(t *testing.T) {
	tests := []struct {
		content, max, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{5, 10, 5},
		{10, 10, 10},
		{25, 10, 10},
		{150, 0, 150},
		{250, 0, MaxInputHeight},
		{3, -1, 3},
	}

	for _, tt := range tests {
		if got := FitHeight(tt.content, tt.max); got != tt.want {
			t.Errorf("FitHeight(%d, %d) = %d, want %d", tt.content, tt.max, got, tt.want)
		}
	}
}
