package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasks-go/internal/utils"
)

//go:embed tasks.schema.json
var bundledSchema []byte

const bundledSchemaURL = "https://github.com/nibzard/tasks-go/tasks.schema.json"

// BundledSchema returns the embedded JSON Schema for task files.
func BundledSchema() []byte {
	out := make([]byte, len(bundledSchema))
	copy(out, bundledSchema)
	return out
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema with a file on disk.
	SchemaPath string
	// SkipSchema disables JSON Schema validation; only minimal checks run.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// ValidateDocument validates raw task file content.
//
// JSON Schema validation covers shape, types and ranges. Checks the schema
// cannot express (unique ids, real calendar dates) always run. When the
// schema is skipped or cannot be compiled, minimal structural checks replace
// it.
func ValidateDocument(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.fail(&ValidationError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)})
		return result
	}

	if !opts.SkipSchema {
		schema, err := compileSchema(opts.SchemaPath)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema unavailable, using minimal checks: %v", err))
		} else {
			result.UsedSchema = true
			if err := schema.Validate(doc); err != nil {
				appendSchemaErrors(result, err)
			}
		}
	}

	f, err := Decode(data)
	if err != nil {
		if !result.UsedSchema {
			result.fail(&ValidationError{Err: err})
		}
		return result
	}
	if !result.UsedSchema {
		f.validateMinimal(result)
	}
	f.validateSemantics(result)

	return result
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	url := bundledSchemaURL
	source := bundledSchema
	if schemaPath != "" {
		absPath, err := filepath.Abs(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid schema path: %w", err)
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		url = "file://" + filepath.ToSlash(absPath)
		source = data
	}

	if err := compiler.AddResource(url, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.fail(err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.fail(&ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	for i := range f.Tasks {
		task := &f.Tasks[i]
		path := fmt.Sprintf("tasks[%d]", i)

		if task.ID < 1 {
			result.fail(&ValidationError{Path: path + ".id", Err: fmt.Errorf("must be a positive integer, got %d", task.ID)})
		}
		if task.Text == "" {
			result.fail(&ValidationError{Path: path + ".text", Err: ErrEmptyText})
		}
		if task.Priority < MinPriority || task.Priority > MaxPriority {
			result.fail(&ValidationError{Path: path + ".priority", Err: fmt.Errorf("%w, got %d", ErrPriorityRange, task.Priority)})
		}
		if !task.Color.Valid() {
			result.fail(&ValidationError{Path: path + ".color", Err: fmt.Errorf("unknown color %q", task.Color)})
		}
	}
}

// validateSemantics checks what the schema cannot express.
func (f *File) validateSemantics(result *ValidationResult) {
	seen := make(map[int]int, len(f.Tasks))
	for i := range f.Tasks {
		task := &f.Tasks[i]
		path := fmt.Sprintf("tasks[%d]", i)

		if first, dup := seen[task.ID]; dup {
			result.fail(&ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate id %d (first at tasks[%d])", task.ID, first)})
		} else {
			seen[task.ID] = i
		}
		if _, err := ParseDate(task.Date); err != nil {
			result.fail(&ValidationError{Path: path + ".date", Err: fmt.Errorf("%w: %q", ErrBadDate, task.Date)})
		}
		if task.Deadline != "" {
			if _, err := ParseDate(task.Deadline); err != nil {
				result.fail(&ValidationError{Path: path + ".deadline", Err: fmt.Errorf("%w: %q", ErrBadDate, task.Deadline)})
			}
		}
	}
}
