package store

import "fmt"

// Write steps reported in WriteError.Op.
const (
	OpEncode  = "encode"
	OpMkdir   = "mkdir"
	OpCreate  = "create temp"
	OpWrite   = "write temp"
	OpSync    = "sync temp"
	OpChmod   = "chmod temp"
	OpClose   = "close temp"
	OpReplace = "replace"
)

// WriteError is returned by Write and Reset. The file at Path is untouched
// when it is returned.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("persist %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
