package nudge

import (
	"fmt"
	"strings"
)

// Section is one labeled block the assistant is asked to use in its reply.
type Section struct {
	Label       string // e.g. "🔍 Analysis"
	Description string // What belongs in the block
}

// Persona is the structured system instruction sent with every request.
// It enforces a canonical layout: role, numbered rules, reply format, and
// a closing note.
type Persona struct {
	Role     string    // Required: who the assistant is
	Rules    []string  // Required: what it must and must not do
	Sections []Section // Reply layout
	Closing  string    // Optional: final guidance
}

// DefaultPersona is the hint-only data structures and algorithms tutor.
func DefaultPersona() *Persona {
	return &Persona{
		Role: "You are a DSA (Data Structures & Algorithms) instructor.",
		Rules: []string{
			"Provide HINTS only, never complete solutions",
			"Help debug code by identifying logical and syntax errors",
			"Guide students step-by-step toward the solution",
			"Ask clarifying questions when needed",
			"For non-DSA questions, politely decline and redirect to DSA topics",
		},
		Sections: []Section{
			{Label: "🔍 Analysis", Description: "Brief problem understanding"},
			{Label: "💡 Hint", Description: "Next step or approach to try"},
			{Label: "🎯 Focus", Description: "What to think about"},
			{Label: "❓ Questions", Description: "If you need clarification"},
		},
		Closing: "Keep responses concise but helpful for a small popup interface.",
	}
}

// Render converts the persona to the system instruction text.
func (p *Persona) Render() string {
	var sections []string

	// Role is always first
	if p.Role != "" {
		sections = append(sections, p.Role+" Your role:")
	}

	if len(p.Rules) > 0 {
		rules := ""
		for i, r := range p.Rules {
			rules += fmt.Sprintf("%d. %s\n", i+1, r)
		}
		sections = append(sections, strings.TrimSpace(rules))
	}

	if len(p.Sections) > 0 {
		format := "Format your response clearly with:\n"
		for _, s := range p.Sections {
			format += fmt.Sprintf("- %s: %s\n", s.Label, s.Description)
		}
		sections = append(sections, strings.TrimSpace(format))
	}

	// Closing is always last
	if p.Closing != "" {
		sections = append(sections, p.Closing)
	}

	return strings.Join(sections, "\n\n")
}

// Validate checks if the persona has required fields.
func (p *Persona) Validate() error {
	if p.Role == "" {
		return fmt.Errorf("persona missing required Role field")
	}
	if len(p.Rules) == 0 {
		return fmt.Errorf("persona missing required Rules field")
	}
	return nil
}
