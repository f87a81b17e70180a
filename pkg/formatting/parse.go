package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrParseFailed is returned when content is not a JSON document, fenced or bare.
	ErrParseFailed = errors.New("failed to parse response")
	// ErrMissingKeys is returned when a parsed JSON object lacks required keys.
	ErrMissingKeys = errors.New("response missing required keys")
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\n?```")

// StripFence returns the body of the first markdown code fence in content,
// or the trimmed content when no fence is present.
func StripFence(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return content
}

// Parse unmarshals content into T, unwrapping a markdown code fence if present.
func Parse[T any](content string) (T, error) {
	var result T
	if err := json.Unmarshal([]byte(StripFence(content)), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return result, nil
}

// ParseRequired parses content like Parse and additionally requires that the
// top-level JSON object defines every key in required.
func ParseRequired[T any](content string, required ...string) (T, error) {
	var zero T
	body := StripFence(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	var missing []string
	for _, key := range required {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return zero, fmt.Errorf("%w: %s", ErrMissingKeys, strings.Join(missing, ", "))
	}

	return Parse[T](body)
}
