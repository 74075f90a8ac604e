// Package errors provides the classified error primitives used across doctags.
//
// A ClassifiedError carries a category, a severity and a small context map.
// Errors are built through the fluent ErrorBuilder and presented to the user
// by the CLIErrorAdapter, which also maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(yamlErr, errors.CategoryDocs, "decode front-matter").
//		WithContext("file", relPath).
//		Build()
package errors
