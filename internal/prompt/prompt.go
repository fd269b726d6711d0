// Package prompt asks the user simple questions over an explicit reader and writer.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter reads one answer per line from its input.
// A closed input answers every question with its default.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Line prints question and returns the trimmed answer.
func (p *Prompter) Line(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}

	if errors.Is(err, io.EOF) && line == "" {
		// Keep the transcript readable when input is piped.
		_, _ = fmt.Fprintln(p.out)
	}

	return strings.TrimSpace(line), nil
}

// String asks question and returns def for an empty answer.
func (p *Prompter) String(question, def string) (string, error) {
	answer, err := p.Line(fmt.Sprintf("%s (default: %s): ", question, def))
	if err != nil {
		return "", err
	}

	if answer == "" {
		return def, nil
	}

	return answer, nil
}

// YesNo asks a Y/N question. Empty answers yield def; anything other
// than y/yes or n/no counts as no.
func (p *Prompter) YesNo(question string, def bool) (bool, error) {
	hint := "N"
	if def {
		hint = "Y"
	}

	answer, err := p.Line(fmt.Sprintf("%s (Y/N, default: %s) ", question, hint))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Int asks for a number. Empty or non-numeric answers yield def.
func (p *Prompter) Int(question string, def int) (int, error) {
	answer, err := p.Line(fmt.Sprintf("%s (default: %d): ", question, def))
	if err != nil {
		return 0, err
	}

	if answer == "" {
		return def, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		_, _ = fmt.Fprintf(p.out, "%q is not a number, using %d.\n", answer, def)

		return def, nil
	}

	return n, nil
}

// Wait blocks until the user presses Enter.
func (p *Prompter) Wait(message string) error {
	_, err := p.Line(message)

	return err
}
