package api

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutputTo(t *testing.T) {
	data := map[string]any{"provider": "openai", "tokens": 42}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
			t.Fatalf("OutputTo failed: %v", err)
		}
		if !strings.Contains(buf.String(), `"provider": "openai"`) {
			t.Errorf("unexpected json: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
			t.Fatalf("OutputTo failed: %v", err)
		}
		if !strings.Contains(buf.String(), "provider: openai") {
			t.Errorf("unexpected yaml: %s", buf.String())
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatText, "generated script"); err != nil {
			t.Fatalf("OutputTo failed: %v", err)
		}
		if buf.String() != "generated script\n" {
			t.Errorf("unexpected text: %q", buf.String())
		}
	})

	t.Run("unknown format errors", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormat("xml"), data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")

	SetOutputFormat("json")
	if GetOutputFormat() != OutputFormatJSON {
		t.Error("expected json")
	}
	SetOutputFormat("text")
	if GetOutputFormat() != OutputFormatText {
		t.Error("expected text")
	}
	SetOutputFormat("bogus")
	if GetOutputFormat() != DefaultOutput {
		t.Error("expected fallback to default")
	}
}
