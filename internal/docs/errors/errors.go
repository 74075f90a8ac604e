// Package errors provides sentinel errors for document discovery and loading.
package errors

import "errors"

var (
	// ErrDocsDirNotFound indicates the configured documentation directory does not exist.
	ErrDocsDirNotFound = errors.New("documentation directory not found")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the docs directory failed.
	ErrDocsDirWalkFailed = errors.New("documentation directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("documentation file read failed")

	// ErrInvalidFrontMatter indicates a document's front-matter block could not be decoded.
	ErrInvalidFrontMatter = errors.New("invalid front-matter")
)
