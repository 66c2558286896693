package roster

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	defaultDelimiterConstant            = ','
	defaultEncodingNameConstant         = "utf-8"
	standardInputPathConstant           = "-"
	standardInputDisplayNameConstant    = "<stdin>"
	unsupportedEncodingTemplateConstant = "unsupported roster encoding %q: %w"
	rosterOpenErrorTemplateConstant     = "unable to open roster %s: %w"
	rosterReadErrorTemplateConstant     = "unable to read roster %s: %w"
	rosterPathMissingMessageConstant    = "roster file path must be provided"
)

// Format describes the textual layout of a roster file.
type Format struct {
	Delimiter      rune
	QuoteCharacter rune
	SkipFirstRow   bool
	Encoding       string
}

// DefaultFormat returns the semicolon separated, unquoted, UTF-8 layout.
func DefaultFormat() Format {
	return Format{Delimiter: ';', Encoding: defaultEncodingNameConstant}
}

func (format Format) resolvedDelimiter() rune {
	if format.Delimiter == 0 {
		return defaultDelimiterConstant
	}
	return format.Delimiter
}

func (format Format) resolveEncoding() (encoding.Encoding, error) {
	encodingName := strings.TrimSpace(format.Encoding)
	if len(encodingName) == 0 {
		encodingName = defaultEncodingNameConstant
	}
	resolvedEncoding, lookupError := htmlindex.Get(encodingName)
	if lookupError != nil {
		return nil, fmt.Errorf(unsupportedEncodingTemplateConstant, encodingName, lookupError)
	}
	return resolvedEncoding, nil
}

// FileOpener opens a roster file for reading.
type FileOpener func(path string) (io.ReadCloser, error)

// Loader parses roster files according to a schema and format.
type Loader struct {
	schema     Schema
	format     Format
	fileOpener FileOpener
	stdin      io.Reader
}

// NewLoader constructs a Loader reading from the filesystem.
func NewLoader(schema Schema, format Format) *Loader {
	return &Loader{
		schema: schema,
		format: format,
		fileOpener: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		stdin: os.Stdin,
	}
}

// Schema returns the schema the loader validates rows against.
func (loader *Loader) Schema() Schema {
	return loader.schema
}

// Format returns the textual layout the loader expects.
func (loader *Loader) Format() Format {
	return loader.format
}

// Load reads the roster at path. The path "-" reads standard input.
func (loader *Loader) Load(path string) (Roster, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return Roster{}, errors.New(rosterPathMissingMessageConstant)
	}

	if trimmedPath == standardInputPathConstant {
		return loader.Read(standardInputDisplayNameConstant, loader.stdin)
	}

	file, openError := loader.fileOpener(trimmedPath)
	if openError != nil {
		return Roster{}, fmt.Errorf(rosterOpenErrorTemplateConstant, trimmedPath, openError)
	}
	defer file.Close()

	return loader.Read(trimmedPath, file)
}

// Read parses roster rows from reader; sourceName only labels errors.
func (loader *Loader) Read(sourceName string, reader io.Reader) (Roster, error) {
	sourceEncoding, encodingError := loader.format.resolveEncoding()
	if encodingError != nil {
		return Roster{}, encodingError
	}

	decodedReader := transform.NewReader(reader, unicode.BOMOverride(sourceEncoding.NewDecoder()))
	scanner := newRecordScanner(decodedReader, loader.format.resolvedDelimiter(), loader.format.QuoteCharacter)

	expectedFieldCount := loader.schema.Len()
	users := make([]UserRecord, 0)
	skipPending := loader.format.SkipFirstRow

	for {
		fields, lineNumber, scanError := scanner.Next()
		if scanError == io.EOF {
			break
		}
		if errors.Is(scanError, errUnterminatedQuote) {
			return Roster{}, FormatError{Path: sourceName, Line: lineNumber, Reason: scanError.Error()}
		}
		if scanError != nil {
			return Roster{}, fmt.Errorf(rosterReadErrorTemplateConstant, sourceName, scanError)
		}

		if skipPending {
			skipPending = false
			continue
		}

		if len(fields)-expectedFieldCount == 1 && len(fields[len(fields)-1]) == 0 {
			fields = fields[:len(fields)-1]
		}
		if len(fields) != expectedFieldCount {
			return Roster{}, FormatError{Path: sourceName, Line: lineNumber, Expected: expectedFieldCount, Actual: len(fields)}
		}

		trimmedFields := make([]string, 0, len(fields))
		for _, field := range fields {
			trimmedFields = append(trimmedFields, strings.TrimSpace(field))
		}

		user, recordError := NewUserRecord(loader.schema, trimmedFields)
		if recordError != nil {
			return Roster{}, FormatError{Path: sourceName, Line: lineNumber, Reason: recordError.Error()}
		}
		users = append(users, user)
	}

	return New(users), nil
}
