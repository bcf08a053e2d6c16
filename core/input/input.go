package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter abstracts operator input so interactive flows can be driven by
// scripted answers in tests.
type Prompter interface {
	// Line prints the prompt and reads one line, trimmed of whitespace.
	Line(prompt string) (string, error)
	// Secret prints the prompt and reads one line without echoing it.
	Secret(prompt string) (string, error)
}

// Terminal reads operator input from stdin, using the terminal's no-echo
// mode for secrets.
type Terminal struct {
	in *bufio.Reader
}

func NewTerminal() *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin)}
}

func (t *Terminal) Line(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		// A final unterminated line is still an answer; a drained
		// stream must surface EOF or retry loops would spin forever.
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Secret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %s", err)
	}
	return string(secret), nil
}

// Script replays canned answers, for tests.
type Script struct {
	Lines   []string
	Secrets []string

	line, secret int
}

func (s *Script) Line(string) (string, error) {
	if s.line >= len(s.Lines) {
		return "", io.EOF
	}
	s.line++
	return s.Lines[s.line-1], nil
}

func (s *Script) Secret(string) (string, error) {
	if s.secret >= len(s.Secrets) {
		return "", io.EOF
	}
	s.secret++
	return s.Secrets[s.secret-1], nil
}
