// Package plan splits a reference into API-sized verse segments.
package plan

import "fmt"

// UnknownBookError indicates the reference names a book outside the name table.
type UnknownBookError struct {
	BookName string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unsupported book name: %s", e.BookName)
}

// BookNotIndexedError indicates the book resolved to a key the corpus does not contain.
type BookNotIndexedError struct {
	BookName string
	BookKey  string
}

func (e *BookNotIndexedError) Error() string {
	return fmt.Sprintf("book not found in corpus: %s (%s)", e.BookName, e.BookKey)
}

// InvalidReferenceError indicates the chapter range could not be parsed.
type InvalidReferenceError struct {
	Reference string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid reference: %s", e.Reference)
}

// NoVersesFoundError indicates the chapter range selected no verses.
type NoVersesFoundError struct {
	Reference string
}

func (e *NoVersesFoundError) Error() string {
	return fmt.Sprintf("no verses found for: %s", e.Reference)
}
