// Package todo owns the task list and its JSON file.
//
// The task file is a bare JSON array, written with 4-space indentation:
//
//	[
//	    {
//	        "description": "buy milk",
//	        "completed": false
//	    }
//	]
//
// Tasks have no identifier. A task is addressed by its position in the list,
// and list order is insertion order.
//
// # Loading
//
// ReadFile reports the outcome of reading a task file as a LoadResult:
//   - missing file: success, empty list, Missing set
//   - malformed JSON or a document that fails the task schema: failure with a *ParseError
//
// Open applies the store's policy on top of that: a failed load starts the
// store with an empty list instead of returning an error.
//
// # Validation
//
// The package embeds a JSON Schema (draft 2020-12) for the task file. Validate
// checks raw documents against it, plus any schema file supplied through
// ValidationOptions. An extra schema can tighten the format but never loosen it.
package todo
