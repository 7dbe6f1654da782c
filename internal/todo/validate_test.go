package todo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDoc = `{
    "tasks": [
        {"id": 1, "done": false, "theme": "default", "text": "A", "date": "18-10-2026", "deadline": "", "priority": 0, "color": "normal"},
        {"id": 2, "done": true, "theme": "work", "text": "B", "date": "18-10-2026", "deadline": "20-10-2026", "priority": 5, "color": "red"}
    ]
}`

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		opts      ValidationOptions
		wantValid bool
		wantPath  string
	}{
		{name: "valid with schema", data: validDoc, wantValid: true},
		{name: "valid minimal", data: validDoc, opts: ValidationOptions{SkipSchema: true}, wantValid: true},
		{name: "empty list", data: `{"tasks": []}`, wantValid: true},
		{name: "not json", data: `{`, wantValid: false},
		{
			name:      "priority out of range with schema",
			data:      strings.Replace(validDoc, `"priority": 5`, `"priority": 7`, 1),
			wantValid: false,
			wantPath:  "tasks[1].priority",
		},
		{
			name:      "priority out of range minimal",
			data:      strings.Replace(validDoc, `"priority": 5`, `"priority": 7`, 1),
			opts:      ValidationOptions{SkipSchema: true},
			wantValid: false,
			wantPath:  "tasks[1].priority",
		},
		{
			name:      "unknown color with schema",
			data:      strings.Replace(validDoc, `"color": "red"`, `"color": "purple"`, 1),
			wantValid: false,
			wantPath:  "tasks[1].color",
		},
		{
			name:      "unknown color minimal",
			data:      strings.Replace(validDoc, `"color": "red"`, `"color": "purple"`, 1),
			opts:      ValidationOptions{SkipSchema: true},
			wantValid: false,
			wantPath:  "tasks[1].color",
		},
		{
			name:      "duplicate id",
			data:      strings.Replace(validDoc, `"id": 2`, `"id": 1`, 1),
			wantValid: false,
			wantPath:  "tasks[1].id",
		},
		{
			name:      "impossible calendar day",
			data:      strings.Replace(validDoc, `"deadline": "20-10-2026"`, `"deadline": "31-02-2026"`, 1),
			wantValid: false,
			wantPath:  "tasks[1].deadline",
		},
		{
			name:      "missing tasks key with schema",
			data:      `{}`,
			wantValid: false,
		},
		{
			name:      "top-level array minimal",
			data:      `[]`,
			opts:      ValidationOptions{SkipSchema: true},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocument([]byte(tt.data), tt.opts)
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.opts.SkipSchema && result.UsedSchema {
				t.Error("UsedSchema = true with SkipSchema")
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, err := range result.Errors {
				if strings.HasPrefix(err.Error(), tt.wantPath) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at %s, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateDocumentSchemaPath(t *testing.T) {
	t.Run("missing schema file falls back", func(t *testing.T) {
		result := ValidateDocument([]byte(validDoc), ValidationOptions{
			SchemaPath: filepath.Join(t.TempDir(), "nope.json"),
		})
		if result.UsedSchema {
			t.Error("UsedSchema = true for missing schema file")
		}
		if len(result.Warnings) == 0 {
			t.Error("expected a warning for missing schema file")
		}
		if !result.Valid {
			t.Errorf("expected valid via minimal checks, got %v", result.Errors)
		}
	})

	t.Run("schema file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.schema.json")
		if err := os.WriteFile(path, BundledSchema(), 0644); err != nil {
			t.Fatal(err)
		}
		result := ValidateDocument([]byte(validDoc), ValidationOptions{SchemaPath: path})
		if !result.UsedSchema {
			t.Errorf("UsedSchema = false, warnings: %v", result.Warnings)
		}
		if !result.Valid {
			t.Errorf("expected valid, got %v", result.Errors)
		}
	})
}

func TestBundledSchemaIsJSON(t *testing.T) {
	var v map[string]interface{}
	if err := json.Unmarshal(BundledSchema(), &v); err != nil {
		t.Fatalf("bundled schema is not valid JSON: %v", err)
	}
	if v["type"] != "object" {
		t.Errorf("type = %v, want object", v["type"])
	}
}
