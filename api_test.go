package nudge

import "testing"

func TestRoleConstants(t *testing.T) {
	t.Run("role_user", func(t *testing.T) {
		if RoleUser != "user" {
			t.Errorf("expected RoleUser='user', got '%s'", RoleUser)
		}
	})

	t.Run("role_system", func(t *testing.T) {
		if RoleSystem != "system" {
			t.Errorf("expected RoleSystem='system', got '%s'", RoleSystem)
		}
	})
}

func TestProviderInterface(t *testing.T) {
	var _ Provider = NewMockProvider()
	var _ Provider = NewMockProviderWithResponse("hint")
	var _ Provider = NewMockProviderWithCallback(func([]Message, GenerationConfig) (string, error) {
		return "", nil
	})
}

func TestHintSourceInterface(t *testing.T) {
	var _ HintSource = NewHinter(NewMockProvider(), HinterConfig{})
}

func TestHintRequest(t *testing.T) {
	req := &HintRequest{
		Text:         "two sum",
		Persona:      DefaultPersona().Render(),
		Generation:   DefaultGeneration(),
		RequestID:    "req-1",
		ProviderName: "mock",
	}

	if req.Usage != nil {
		t.Error("Usage should be nil until the provider responds")
	}
	if req.Response != "" {
		t.Error("Response should be empty until the provider responds")
	}
}
