package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	usernamePromptTemplateConstant       = "%s username [%s]: "
	passwordPromptTemplateConstant       = "%s password: "
	passwordRepeatPromptTemplateConstant = "%s password (again): "
	passwordMismatchMessageConstant      = "Passwords do not match. Try again\n"
	twoFactorPromptConstant              = "Enter 2FA code: "
	newlineConstant                      = "\n"
	inputClosedMessageConstant           = "input closed before a value was entered"
)

// ErrInputClosed indicates the input stream ended while a value was still required.
var ErrInputClosed = errors.New(inputClosedMessageConstant)

// PasswordReader reads a secret from a terminal without echoing it.
type PasswordReader func(fileDescriptor int) ([]byte, error)

// CredentialsPrompter asks the operator for a username, password and two-factor code.
type CredentialsPrompter struct {
	platformName   string
	reader         *bufio.Reader
	terminal       *os.File
	writer         io.Writer
	passwordReader PasswordReader
}

// NewCredentialsPrompter reads from input and writes prompts to output. When input is a
// terminal, passwords are read without echo.
func NewCredentialsPrompter(platformName string, input io.Reader, output io.Writer) *CredentialsPrompter {
	prompter := &CredentialsPrompter{
		platformName:   platformName,
		reader:         bufio.NewReader(input),
		writer:         output,
		passwordReader: term.ReadPassword,
	}
	if inputFile, isFile := input.(*os.File); isFile && term.IsTerminal(int(inputFile.Fd())) {
		prompter.terminal = inputFile
	}
	return prompter
}

// Username asks for a login, returning defaultName when the answer is blank.
func (prompter *CredentialsPrompter) Username(defaultName string) (string, error) {
	prompter.write(fmt.Sprintf(usernamePromptTemplateConstant, prompter.platformName, defaultName))
	answer, readError := prompter.readLine()
	if readError != nil && !errors.Is(readError, ErrInputClosed) {
		return "", readError
	}
	if len(answer) == 0 {
		return defaultName, nil
	}
	return answer, nil
}

// Password asks for the password twice and repeats until both entries match.
func (prompter *CredentialsPrompter) Password() (string, error) {
	for {
		prompter.write(fmt.Sprintf(passwordPromptTemplateConstant, prompter.platformName))
		first, firstError := prompter.readSecret()
		if firstError != nil {
			return "", firstError
		}
		prompter.write(fmt.Sprintf(passwordRepeatPromptTemplateConstant, prompter.platformName))
		second, secondError := prompter.readSecret()
		if secondError != nil {
			return "", secondError
		}
		if first == second {
			return first, nil
		}
		prompter.write(passwordMismatchMessageConstant)
	}
}

// TwoFactorCode asks for a one-time password until a non-empty code is entered.
func (prompter *CredentialsPrompter) TwoFactorCode() (string, error) {
	for {
		prompter.write(twoFactorPromptConstant)
		code, readError := prompter.readLine()
		if len(code) > 0 {
			return code, nil
		}
		if readError != nil {
			return "", readError
		}
	}
}

func (prompter *CredentialsPrompter) readSecret() (string, error) {
	if prompter.terminal == nil {
		secret, readError := prompter.readLine()
		if errors.Is(readError, ErrInputClosed) && len(secret) > 0 {
			return secret, nil
		}
		return secret, readError
	}
	secret, readError := prompter.passwordReader(int(prompter.terminal.Fd()))
	prompter.write(newlineConstant)
	if readError != nil {
		return "", readError
	}
	return string(secret), nil
}

func (prompter *CredentialsPrompter) readLine() (string, error) {
	line, readError := prompter.reader.ReadString('\n')
	trimmedLine := strings.TrimSpace(line)
	if readError == io.EOF {
		return trimmedLine, ErrInputClosed
	}
	if readError != nil {
		return "", readError
	}
	return trimmedLine, nil
}

func (prompter *CredentialsPrompter) write(text string) {
	if prompter.writer == nil {
		return
	}
	_, _ = io.WriteString(prompter.writer, text)
}
