package roster

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	carriageReturnRuneConstant = '\r'
	lineFeedRuneConstant       = '\n'
	spaceRuneConstant          = ' '
)

var errUnterminatedQuote = errors.New("unterminated quoted field")

// recordScanner splits delimited text into records. Unlike encoding/csv it supports an
// arbitrary quote character, or none at all, in which case quotes are ordinary text.
type recordScanner struct {
	reader           *bufio.Reader
	delimiter        rune
	quoteCharacter   rune
	trimLeadingSpace bool
	line             int
}

func newRecordScanner(reader io.Reader, delimiter rune, quoteCharacter rune) *recordScanner {
	return &recordScanner{
		reader:           bufio.NewReader(reader),
		delimiter:        delimiter,
		quoteCharacter:   quoteCharacter,
		trimLeadingSpace: true,
	}
}

// Next returns the next non-blank record and the line it starts on. It returns io.EOF when exhausted.
func (scanner *recordScanner) Next() ([]string, int, error) {
	for {
		record, startLine, blank, scanError := scanner.scanRecord()
		if scanError != nil {
			return nil, startLine, scanError
		}
		if blank {
			continue
		}
		return record, startLine, nil
	}
}

func (scanner *recordScanner) scanRecord() ([]string, int, bool, error) {
	startLine := scanner.line + 1
	fields := make([]string, 0)
	var field strings.Builder
	inQuotes := false
	atFieldStart := true
	sawContent := false

	for {
		current, _, readError := scanner.reader.ReadRune()
		if readError == io.EOF {
			if inQuotes {
				return nil, startLine, false, errUnterminatedQuote
			}
			if !sawContent && len(fields) == 0 {
				return nil, startLine, false, io.EOF
			}
			scanner.line++
			return append(fields, field.String()), startLine, false, nil
		}
		if readError != nil {
			return nil, startLine, false, readError
		}

		if inQuotes {
			if current == scanner.quoteCharacter {
				next, _, peekError := scanner.reader.ReadRune()
				if peekError == nil && next == scanner.quoteCharacter {
					field.WriteRune(current)
					continue
				}
				if peekError == nil {
					_ = scanner.reader.UnreadRune()
				}
				inQuotes = false
				continue
			}
			if current == lineFeedRuneConstant {
				scanner.line++
			}
			field.WriteRune(current)
			continue
		}

		switch {
		case current == carriageReturnRuneConstant:
			next, _, peekError := scanner.reader.ReadRune()
			if peekError == nil && next != lineFeedRuneConstant {
				_ = scanner.reader.UnreadRune()
			}
			scanner.line++
			if !sawContent && len(fields) == 0 {
				return nil, startLine, true, nil
			}
			return append(fields, field.String()), startLine, false, nil
		case current == lineFeedRuneConstant:
			scanner.line++
			if !sawContent && len(fields) == 0 {
				return nil, startLine, true, nil
			}
			return append(fields, field.String()), startLine, false, nil
		case current == scanner.delimiter:
			fields = append(fields, field.String())
			field.Reset()
			atFieldStart = true
			sawContent = true
		case atFieldStart && scanner.trimLeadingSpace && current == spaceRuneConstant:
			continue
		case atFieldStart && scanner.quoteCharacter != 0 && current == scanner.quoteCharacter:
			inQuotes = true
			atFieldStart = false
			sawContent = true
		default:
			field.WriteRune(current)
			atFieldStart = false
			sawContent = true
		}
	}
}
