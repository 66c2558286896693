package roster

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/transform"
)

const (
	lineTerminatorConstant           = "\n"
	unquotableFieldTemplateConstant  = "field %q needs quoting but no quote character is configured"
	rosterWriteErrorTemplateConstant = "unable to write roster: %w"
	rosterFlushErrorTemplateConstant = "unable to flush roster: %w"
)

// Writer serializes user records using the same schema and format the Loader reads.
type Writer struct {
	schema Schema
	format Format
}

// NewWriter constructs a Writer.
func NewWriter(schema Schema, format Format) *Writer {
	return &Writer{schema: schema, format: format}
}

// Write encodes records to destination. A header row is emitted when the format skips its first row.
func (writer *Writer) Write(destination io.Writer, records []UserRecord) error {
	targetEncoding, encodingError := writer.format.resolveEncoding()
	if encodingError != nil {
		return encodingError
	}

	encodedWriter := transform.NewWriter(destination, targetEncoding.NewEncoder())

	if writer.format.SkipFirstRow {
		if writeError := writer.writeRow(encodedWriter, writer.schema.Columns()); writeError != nil {
			return writeError
		}
	}

	for _, record := range records {
		if writeError := writer.writeRow(encodedWriter, record.Values()); writeError != nil {
			return writeError
		}
	}

	if closeError := encodedWriter.Close(); closeError != nil {
		return fmt.Errorf(rosterFlushErrorTemplateConstant, closeError)
	}
	return nil
}

func (writer *Writer) writeRow(destination io.Writer, values []string) error {
	delimiter := string(writer.format.resolvedDelimiter())
	encodedFields := make([]string, 0, len(values))
	for _, value := range values {
		encodedField, encodeError := writer.encodeField(value)
		if encodeError != nil {
			return encodeError
		}
		encodedFields = append(encodedFields, encodedField)
	}

	row := strings.Join(encodedFields, delimiter) + lineTerminatorConstant
	if _, writeError := io.WriteString(destination, row); writeError != nil {
		return fmt.Errorf(rosterWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func (writer *Writer) encodeField(value string) (string, error) {
	specialCharacters := string(writer.format.resolvedDelimiter()) + "\r\n"
	quoteCharacter := writer.format.QuoteCharacter
	if quoteCharacter != 0 {
		specialCharacters += string(quoteCharacter)
	}

	if !strings.ContainsAny(value, specialCharacters) {
		return value, nil
	}
	if quoteCharacter == 0 {
		return "", fmt.Errorf(unquotableFieldTemplateConstant, value)
	}

	quote := string(quoteCharacter)
	escapedValue := strings.ReplaceAll(value, quote, quote+quote)
	return quote + escapedValue + quote, nil
}
