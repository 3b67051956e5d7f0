package pipeline

import "fmt"

// IngestError reports that the input file could not be read, or that its
// header does not match a declared schema.
type IngestError struct {
	Path string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// SchemaError reports that an expected column is absent from the frame.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: column %q not present", e.Column)
}

// ParseError reports a value that could not be cast, with enough context to
// find the offending cell.
type ParseError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse column %q row %d: cannot parse %q: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ColumnError reports a column referenced at query time that does not exist
// in the input frame.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// EmptyInputError reports an aggregation or quantile over zero groups.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input, result undefined", e.Op)
}
