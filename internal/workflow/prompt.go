package workflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	PromptUseDefault = "Do you want to use the default message for this commit?([y]/n)"
	PromptCustom     = "What message do you want?"
	NoticeDefault    = "Using the default message, update the repository."
)

// InteractivePrompter asks on Out and reads answers line by line from Stdin.
// Any first answer starting with "n" switches to a typed message.
type InteractivePrompter struct {
	Stdin io.Reader
	Out   io.Writer

	reader *bufio.Reader
}

func (p *InteractivePrompter) ChooseMessage(ctx context.Context, defaultMessage string) (string, bool, error) {
	type answer struct {
		message string
		custom  bool
		err     error
	}

	// Reads from stdin cannot be interrupted, so wait on the context instead.
	done := make(chan answer, 1)
	go func() {
		message, custom, err := p.ask(defaultMessage)
		done <- answer{message, custom, err}
	}()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case a := <-done:
		return a.message, a.custom, a.err
	}
}

func (p *InteractivePrompter) ask(defaultMessage string) (string, bool, error) {
	fmt.Fprintln(p.out(), PromptUseDefault)
	response, err := p.readLine()
	if err != nil {
		return "", false, err
	}

	if strings.HasPrefix(strings.TrimSpace(response), "n") {
		fmt.Fprintln(p.out(), PromptCustom)
		message, err := p.readLine()
		if err != nil {
			return "", false, err
		}
		return message, true, nil
	}

	fmt.Fprintln(p.out(), NoticeDefault)
	return defaultMessage, false, nil
}

// readLine returns one line without its terminator. End of input after a
// partial line returns that text; end of input with nothing read is an error.
func (p *InteractivePrompter) readLine() (string, error) {
	if p.reader == nil {
		stdin := p.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		p.reader = bufio.NewReader(stdin)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read user input: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (p *InteractivePrompter) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}
