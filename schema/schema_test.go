package schema

import (
	"encoding/json"
	"testing"
)

// TestEmbeddedSchemaIsValidJSON catches a corrupted or malformed schema file
// at test time rather than at the first grading run.
func TestEmbeddedSchemaIsValidJSON(t *testing.T) {
	t.Parallel()

	data, err := FS.ReadFile("suite.schema.json")
	if err != nil {
		t.Fatalf("failed to read embedded schema: %v", err)
	}

	var v map[string]interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("suite.schema.json is not valid JSON: %v", err)
	}

	if _, ok := v["$schema"]; !ok {
		t.Error("suite.schema.json missing $schema field")
	}
	if v["type"] != "object" {
		t.Errorf("suite.schema.json root type = %v, want object", v["type"])
	}
}
