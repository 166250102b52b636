package definition

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONSchema(t *testing.T) {
	payload, err := JSONSchema()
	if err != nil {
		t.Fatalf("json schema: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["title"] != "Form definition" {
		t.Fatalf("unexpected title %v", doc["title"])
	}

	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected root properties, got %v", doc["properties"])
	}
	for _, key := range []string{"id", "name", "description", "elements"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("expected property %q in schema", key)
		}
	}

	text := string(payload)
	for _, fragment := range []string{`"repeatableSet"`, `"barcodeScanner"`, `"defaultValue"`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in schema", fragment)
		}
	}
}
