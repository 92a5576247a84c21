package nudge

import (
	"strings"
	"unicode/utf8"
)

// MinInputLength is the minimum trimmed length of a question, in runes.
const MinInputLength = 10

// MaxInputHeight caps the visible height of the input surface.
const MaxInputHeight = 200

// ValidateInput checks text the way the submit action does and returns a
// KindValidation error carrying the message to show, or nil.
func ValidateInput(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ValidationError(MessageEmptyInput)
	}
	if utf8.RuneCountInString(trimmed) < MinInputLength {
		return ValidationError(MessageShortInput)
	}
	return nil
}

// FitHeight returns the visible height for content of the given natural
// height: never below one line, never above maxHeight.
// A non-positive maxHeight means MaxInputHeight.
func FitHeight(contentHeight, maxHeight int) int {
	if maxHeight <= 0 {
		maxHeight = MaxInputHeight
	}
	if contentHeight < 1 {
		contentHeight = 1
	}
	if contentHeight > maxHeight {
		return maxHeight
	}
	return contentHeight
}
