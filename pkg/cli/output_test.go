package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{}

	out, err := f.Format("charged 3 units")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if string(out) != "charged 3 units\n" {
		t.Errorf("Format = %q, want %q", out, "charged 3 units\n")
	}

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, 42); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("FormatTo = %q, want %q", buf.String(), "42\n")
	}
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{Indent: true}
	data := map[string]any{"event_name": "page-scraped", "charged_count": 3}

	out, err := f.Format(data)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if parsed["event_name"] != "page-scraped" {
		t.Errorf("event_name = %v, want %q", parsed["event_name"], "page-scraped")
	}
	if !strings.Contains(string(out), "\n") {
		t.Error("indented output has no newlines")
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) did not return a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) did not return a TextFormatter")
	}
	if _, ok := NewFormatter("bogus").(*TextFormatter); !ok {
		t.Error("NewFormatter(bogus) did not fall back to TextFormatter")
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("budget file missing")
	err := NewCommandError("simulate", cause)

	if !strings.Contains(err.Error(), "simulate") {
		t.Errorf("Error() = %q, missing command name", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not unwrap to the cause")
	}
}
