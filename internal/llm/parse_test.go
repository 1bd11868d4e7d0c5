package llm

import "testing"

func TestParseValidObject(t *testing.T) {
	payload := Parse(`{"a": 1, "b": {"c": "x"}}`)
	if payload["a"] != 1.0 {
		t.Errorf("a = %v, want 1", payload["a"])
	}
	nested, ok := payload["b"].(map[string]any)
	if !ok || nested["c"] != "x" {
		t.Errorf("b = %v, want nested mapping", payload["b"])
	}
}

func TestParseMalformedText(t *testing.T) {
	raw := "the model rambled instead of returning JSON"
	payload := Parse(raw)
	if payload["analysis"] != raw {
		t.Errorf("analysis = %v, want original text", payload["analysis"])
	}
	if len(payload) != 1 {
		t.Errorf("fallback payload should have exactly one field, got %v", payload)
	}
}

func TestParseNonObjectJSON(t *testing.T) {
	for _, raw := range []string{`[1, 2]`, `"just a string"`, `42`, `null`, ``} {
		payload := Parse(raw)
		if payload["analysis"] != raw {
			t.Errorf("Parse(%q) = %v, want analysis wrapper", raw, payload)
		}
	}
}
