package roster

import "fmt"

const (
	formatErrorCountTemplateConstant  = "%s:%d: expected CSV line with %d entries, got %d"
	formatErrorReasonTemplateConstant = "%s:%d: %s"
)

// FormatError reports a roster row that does not match the configured schema.
type FormatError struct {
	Path     string
	Line     int
	Expected int
	Actual   int
	Reason   string
}

// Error describes the malformed row.
func (formatError FormatError) Error() string {
	if len(formatError.Reason) > 0 {
		return fmt.Sprintf(formatErrorReasonTemplateConstant, formatError.Path, formatError.Line, formatError.Reason)
	}
	return fmt.Sprintf(formatErrorCountTemplateConstant, formatError.Path, formatError.Line, formatError.Expected, formatError.Actual)
}
