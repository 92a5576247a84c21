package nudge

import (
	"strings"
	"testing"
)

func TestPersona_Render(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		rendered := DefaultPersona().Render()

		for _, want := range []string{
			"DSA (Data Structures & Algorithms) instructor",
			"1. Provide HINTS only, never complete solutions",
			"5. For non-DSA questions, politely decline",
			"🔍 Analysis",
			"💡 Hint",
			"🎯 Focus",
			"❓ Questions",
			"small popup interface",
		} {
			if !strings.Contains(rendered, want) {
				t.Errorf("rendered persona missing %q", want)
			}
		}
	})

	t.Run("order", func(t *testing.T) {
		rendered := DefaultPersona().Render()

		role := strings.Index(rendered, "instructor")
		rules := strings.Index(rendered, "1. Provide")
		format := strings.Index(rendered, "Format your response")
		closing := strings.Index(rendered, "Keep responses concise")

		if role >= rules || rules >= format || format >= closing {
			t.Errorf("sections out of order: role=%d rules=%d format=%d closing=%d", role, rules, format, closing)
		}
	})

	t.Run("minimal", func(t *testing.T) {
		p := &Persona{Role: "You are a tutor.", Rules: []string{"Be brief"}}
		rendered := p.Render()

		if strings.Contains(rendered, "Format your response") {
			t.Error("format block should be omitted without sections")
		}
		if !strings.HasSuffix(rendered, "1. Be brief") {
			t.Errorf("unexpected rendering %q", rendered)
		}
	})
}

func TestPersona_Validate(t *testing.T) {
	if err := DefaultPersona().Validate(); err != nil {
		t.Errorf("default persona should be valid: %v", err)
	}
	if err := (&Persona{Rules: []string{"x"}}).Validate(); err == nil {
		t.Error("expected error for missing role")
	}
	if err := (&Persona{Role: "x"}).Validate(); err == nil {
		t.Error("expected error for missing rules")
	}
}
