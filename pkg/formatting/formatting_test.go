package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/iris/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"2048", 2048, false},
		{"1KB", 1024, false},
		{"10MB", 10 * 1024 * 1024, false},
		{"10 mb", 10 * 1024 * 1024, false},
		{"1.5KB", 1536, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"", 0, true},
		{"MB", 0, true},
		{"10XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, 1); got != tt.want {
			t.Errorf("FormatBytes(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

type bundle struct {
	English string `json:"english"`
	Tamil   string `json:"tamil"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"bare json", `{"english":"a","tamil":"b"}`, "a", false},
		{"fenced json", "```json\n{\"english\":\"c\",\"tamil\":\"d\"}\n```", "c", false},
		{"fenced no lang", "```\n{\"english\":\"e\"}\n```", "e", false},
		{"prose around fence", "Here you go:\n```json\n{\"english\":\"f\"}\n```\nThanks", "f", false},
		{"not json", "I cannot help with that", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[bundle](tt.content)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Errorf("err = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.English != tt.want {
				t.Errorf("got %s, want %s", got.English, tt.want)
			}
		})
	}
}

func TestParseRequired(t *testing.T) {
	t.Run("all keys", func(t *testing.T) {
		got, err := formatting.ParseRequired[bundle](`{"english":"a","tamil":""}`, "english", "tamil")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.English != "a" {
			t.Errorf("got %s, want a", got.English)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := formatting.ParseRequired[bundle](`{"english":"a"}`, "english", "tamil")
		if !errors.Is(err, formatting.ErrMissingKeys) {
			t.Errorf("err = %v, want ErrMissingKeys", err)
		}
	})

	t.Run("null key", func(t *testing.T) {
		_, err := formatting.ParseRequired[bundle](`{"english":null,"tamil":"x"}`, "english", "tamil")
		if !errors.Is(err, formatting.ErrMissingKeys) {
			t.Errorf("err = %v, want ErrMissingKeys", err)
		}
	})

	t.Run("array body", func(t *testing.T) {
		_, err := formatting.ParseRequired[bundle](`["english"]`, "english")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})
}
