package catalog

import "fmt"

// DataError indicates the skill catalog could not be loaded: the file is
// missing, the JSON is malformed, the document fails schema validation, or
// the catalog contains no skills. It is fatal at startup.
type DataError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skill catalog %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("skill catalog %s: %s", e.Path, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}
