package nudge

import (
	"errors"
	"strings"
)

// Category is the user-facing class of a failure.
type Category int

// Display categories, checked in this order.
const (
	CategoryConfiguration Category = iota
	CategoryNetwork
	CategoryQuota
	CategoryVerbatim
	CategoryFallback
)

// Messages shown for each category.
const (
	MessageNotConfigured = "API key not configured. Please check your setup."
	MessageNetwork       = "Network error. Please check your connection."
	MessageQuota         = "API quota exceeded. Please try again later."
	MessageFallback      = "Sorry, something went wrong. Please try again."
	MessageUnexpected    = "An unexpected error occurred"
)

// Validation messages shown by the Session.
const (
	MessageEmptyInput = "Please enter your LeetCode question or code first!"
	MessageShortInput = "Please provide more details about your problem."
)

// DefaultVerbatimLimit is the length below which a raw error message is
// shown as-is. It is a heuristic, not a contract.
const DefaultVerbatimLimit = 100

// apiKeyReason is the reason code Gemini attaches to a rejected key.
const apiKeyReason = "API_KEY_INVALID"

// Display maps errors to the single message shown to the user.
type Display struct {
	// Messages overrides the message for a category. Missing entries fall
	// back to the defaults.
	Messages map[Category]string

	// VerbatimLimit is the exclusive upper bound on the length of a raw
	// message that may be shown verbatim. Zero means DefaultVerbatimLimit.
	VerbatimLimit int
}

var defaultMessages = map[Category]string{
	CategoryConfiguration: MessageNotConfigured,
	CategoryNetwork:       MessageNetwork,
	CategoryQuota:         MessageQuota,
	CategoryFallback:      MessageFallback,
}

// Categorize classifies err. Typed errors are classified by kind, status
// and reason; untyped errors fall back to matching their message text.
func Categorize(err error) Category {
	if err == nil {
		return CategoryFallback
	}

	var e *Error
	if !errors.As(err, &e) {
		return categorizeText(err.Error())
	}

	switch e.Kind {
	case KindConfiguration:
		return CategoryConfiguration
	case KindNetwork:
		return CategoryNetwork
	case KindValidation, KindEmptyResponse:
		return CategoryVerbatim
	case KindHTTP:
		if e.Reason == apiKeyReason {
			return CategoryConfiguration
		}
		if category := categorizeText(e.Message); category != CategoryVerbatim {
			return category
		}
		if e.Status == 429 {
			return CategoryQuota
		}
		return CategoryVerbatim
	default:
		if e.Err != nil && e.Message == "" {
			return categorizeText(e.Err.Error())
		}
		return categorizeText(e.Message)
	}
}

// categorizeText applies the message-matching rules, first match wins.
func categorizeText(msg string) Category {
	switch {
	case strings.Contains(msg, "API_KEY"):
		return CategoryConfiguration
	case strings.Contains(msg, "fetch"):
		return CategoryNetwork
	case mentionsQuota(msg):
		return CategoryQuota
	default:
		return CategoryVerbatim
	}
}

func mentionsQuota(msg string) bool {
	return strings.Contains(msg, "quota") || strings.Contains(msg, "limit")
}

// Message returns the text to show for err.
func (d Display) Message(err error) string {
	category := Categorize(err)
	if category != CategoryVerbatim {
		return d.lookup(category)
	}

	raw := rawMessage(err)
	limit := d.VerbatimLimit
	if limit <= 0 {
		limit = DefaultVerbatimLimit
	}
	if raw != "" && len(raw) < limit {
		return raw
	}
	return d.lookup(CategoryFallback)
}

func (d Display) lookup(category Category) string {
	if msg, ok := d.Messages[category]; ok && msg != "" {
		return msg
	}
	return defaultMessages[category]
}

// rawMessage returns the message a user would see if it were shown
// verbatim: the typed message without its wrapped cause.
func rawMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return ""
	}
	return err.Error()
}
