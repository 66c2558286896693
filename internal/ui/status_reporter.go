package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils"
)

const (
	okLabelConstant                 = "OK"
	notOKLabelConstant              = "Not OK"
	labelWithReasonTemplateConstant = "%s (%s)"
	actionSuffixConstant            = " "
	lineTerminatorConstant          = "\n"
)

// StatusReporter prints the operator-facing progress of a command: a green action line
// finished by a bold OK or Not OK, yellow skip notices and red warnings.
type StatusReporter struct {
	writer       io.Writer
	actionColor  *color.Color
	successColor *color.Color
	failureColor *color.Color
	noticeColor  *color.Color
	warningColor *color.Color
}

// NewStatusReporter writes to writer, or standard output when writer is nil. Colors are
// only emitted when writer is a terminal.
func NewStatusReporter(writer io.Writer) *StatusReporter {
	if writer == nil {
		writer = os.Stdout
	}

	reporter := &StatusReporter{
		writer:       utils.NewFlushingWriter(writer),
		actionColor:  color.New(color.FgGreen),
		successColor: color.New(color.FgGreen, color.Bold),
		failureColor: color.New(color.FgRed, color.Bold),
		noticeColor:  color.New(color.FgYellow),
		warningColor: color.New(color.FgRed),
	}

	if !isTerminal(writer) {
		for _, palette := range []*color.Color{reporter.actionColor, reporter.successColor, reporter.failureColor, reporter.noticeColor, reporter.warningColor} {
			palette.DisableColor()
		}
	}
	return reporter
}

// Action announces a step without ending the line; Outcome completes it.
func (reporter *StatusReporter) Action(format string, arguments ...any) {
	reporter.actionColor.Fprint(reporter.writer, fmt.Sprintf(format, arguments...)+actionSuffixConstant)
}

// Outcome finishes an action line.
func (reporter *StatusReporter) Outcome(outcome reconcile.Outcome) {
	switch outcome.Status {
	case reconcile.StatusFailed:
		reporter.failureColor.Fprint(reporter.writer, withReason(notOKLabelConstant, outcome.Reason))
	default:
		reporter.successColor.Fprint(reporter.writer, withReason(okLabelConstant, outcome.Reason))
	}
	fmt.Fprint(reporter.writer, lineTerminatorConstant)
}

// Notice prints a yellow line, used for skipped items.
func (reporter *StatusReporter) Notice(format string, arguments ...any) {
	reporter.printLine(reporter.noticeColor, format, arguments...)
}

// Info prints a green line.
func (reporter *StatusReporter) Info(format string, arguments ...any) {
	reporter.printLine(reporter.actionColor, format, arguments...)
}

// Warning prints a red line.
func (reporter *StatusReporter) Warning(format string, arguments ...any) {
	reporter.printLine(reporter.warningColor, format, arguments...)
}

func (reporter *StatusReporter) printLine(palette *color.Color, format string, arguments ...any) {
	palette.Fprint(reporter.writer, fmt.Sprintf(format, arguments...))
	fmt.Fprint(reporter.writer, lineTerminatorConstant)
}

func withReason(label string, reason string) string {
	if len(reason) == 0 {
		return label
	}
	return fmt.Sprintf(labelWithReasonTemplateConstant, label, reason)
}

func isTerminal(writer io.Writer) bool {
	if flushingWriter, isFlushing := writer.(*utils.FlushingWriter); isFlushing {
		writer = flushingWriter.Underlying()
	}
	file, isFile := writer.(*os.File)
	return isFile && term.IsTerminal(int(file.Fd()))
}
