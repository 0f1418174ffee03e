package internal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/scriptogre/op-client/onepassword"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// Color formatting functions
func Bold(text string) string {
	return colorBold + text + colorReset
}

func Yellow(text string) string {
	return colorYellow + text + colorReset
}

func Red(text string) string {
	return colorRed + text + colorReset
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// PromptLine prints a label and reads one line of input, with the
// trailing newline trimmed.
func PromptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads the master password from the terminal without
// echo.
func PromptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// ShowError presents a client error with a hint matched to its kind.
func ShowError(err error) {
	var sessionErr *onepassword.SessionError
	var platformErr *onepassword.PlatformNotSupportedError

	switch {
	case errors.As(err, &sessionErr):
		fmt.Fprintf(os.Stderr, "%s %s\n", Red("🔐"), sessionErr.Message)
		fmt.Fprintf(os.Stderr, "Run %s to authenticate again.\n", Bold("op-client signin"))
	case errors.As(err, &platformErr):
		fmt.Fprintf(os.Stderr, "%s %s\n", Red("🚫"), platformErr.Error())
	default:
		fmt.Fprintln(os.Stderr, Red("✗")+" "+err.Error())
	}
}
