// Package todo defines the task record, its boundary validation, and the
// on-disk task document.
//
// The task file (ToDoList.json by default) is a single object:
//
//	{
//	    "tasks": [
//	        {
//	            "id": 1,
//	            "done": false,
//	            "theme": "default",
//	            "text": "Buy milk",
//	            "date": "18-10-2026",
//	            "deadline": "",
//	            "priority": 2,
//	            "color": "normal"
//	        }
//	    ]
//	}
//
// # Dates
//
// Both date and deadline use the DD-MM-YYYY layout. An empty deadline means
// the task has none. Parsed dates are civil days represented as midnight UTC,
// so comparing them never crosses a DST boundary.
//
// # Validation
//
// Values coming from a user pass through Draft.Normalize (new tasks) or
// Patch.Apply (edits) before they reach a store. Both return a
// *ValidationError describing the offending field.
//
// ValidateDocument checks a raw task file, either against the embedded JSON
// Schema or with minimal structural checks when the schema is disabled.
//
// # File Format
//
// When writing task files, the package uses:
//   - 4-space indentation
//   - literal non-ASCII text (no \u escapes, no HTML escaping)
//   - trailing newline
package todo
