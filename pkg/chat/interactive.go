package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	loggerpkg "github.com/minhyannv/claude-chat/pkg/logger"
)

// DefaultExitWords end the interactive loop, compared case-insensitively.
var DefaultExitWords = []string{"quit", "exit", "bye"}

const (
	clearCommand = "clear"
	farewell     = "Goodbye!"
)

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("You:")
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Render("Claude:")
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

// InteractiveOptions configures RunInteractive.
type InteractiveOptions struct {
	// ExitWords defaults to DefaultExitWords.
	ExitWords []string
	// Clear wipes the terminal; defaults to an ANSI clear via termenv.
	Clear   func(io.Writer)
	Logger  loggerpkg.Logger
	Verbose bool
}

func (o InteractiveOptions) withDefaults() InteractiveOptions {
	if len(o.ExitWords) == 0 {
		o.ExitWords = DefaultExitWords
	}
	if o.Clear == nil {
		o.Clear = clearScreen
	}
	o.Logger = loggerpkg.OrNop(o.Logger)
	return o
}

func (o InteractiveOptions) isExitWord(input string) bool {
	for _, w := range o.ExitWords {
		if strings.EqualFold(input, w) {
			return true
		}
	}
	return false
}

func clearScreen(w io.Writer) {
	termenv.NewOutput(w).ClearScreen()
}

type loopState int

const (
	stateReading loopState = iota
	stateDispatching
	stateExiting
)

type lineEvent int

const (
	eventLine lineEvent = iota
	eventEOF
	eventInterrupt
)

// RunInteractive reads prompts line by line from in and prints one reply per
// line to out. Exchanges are strictly sequential and share nothing but the
// Exchanger. Cancelling ctx ends the loop with a farewell and a nil error.
func RunInteractive(ctx context.Context, ex Exchanger, in io.Reader, out io.Writer, opts InteractiveOptions) error {
	if ex == nil {
		return errors.New("exchanger is required")
	}
	if in == nil {
		return errors.New("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.withDefaults()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	readErr := make(chan error, 1)
	go readLines(in, lines, readErr, done)

	loggerpkg.Debug(opts.Verbose, opts.Logger, "interactive start", map[string]any{
		"exit_words": opts.ExitWords,
	})
	printWelcome(out, opts.ExitWords)

	state := stateReading
	var input string
	for state != stateExiting {
		switch state {
		case stateReading:
			if ctx.Err() != nil {
				state = interrupted(out)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s ", userLabel)

			line, ev := nextLine(ctx, lines)
			switch ev {
			case eventInterrupt:
				state = interrupted(out)
				continue
			case eventEOF:
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintln(out, farewell)
				if err := <-readErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				return nil
			}

			input = strings.TrimSpace(line)
			switch {
			case opts.isExitWord(input):
				_, _ = fmt.Fprintln(out, farewell)
				state = stateExiting
			case strings.EqualFold(input, clearCommand):
				opts.Clear(out)
			case input == "":
			default:
				state = stateDispatching
			}

		case stateDispatching:
			state = stateReading
			if ctx.Err() != nil {
				continue
			}
			loggerpkg.Debug(opts.Verbose, opts.Logger, "dispatch", map[string]any{
				"prompt_bytes": len(input),
			})
			_, _ = fmt.Fprintf(out, "%s ", assistantLabel)
			res := ex.Exchange(ctx, input)
			_, _ = fmt.Fprintln(out, res.String())
			_, _ = fmt.Fprintln(out)
		}
	}
	return nil
}

func interrupted(out io.Writer) loopState {
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, farewell)
	return stateExiting
}

func nextLine(ctx context.Context, lines <-chan string) (string, lineEvent) {
	select {
	case <-ctx.Done():
		return "", eventInterrupt
	case line, ok := <-lines:
		if !ok {
			return "", eventEOF
		}
		return line, eventLine
	}
}

// readLines feeds in line by line until EOF or until done is closed. The
// scanner error, if any, is sent on errc before lines is closed.
func readLines(in io.Reader, lines chan<- string, errc chan<- error, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
	errc <- scanner.Err()
}

func printWelcome(out io.Writer, exitWords []string) {
	quoted := make([]string, len(exitWords))
	for i, w := range exitWords {
		quoted[i] = "'" + w + "'"
	}
	_, _ = fmt.Fprintln(out, titleStyle.Render("Claude Interactive Chat"))
	_, _ = fmt.Fprintln(out, strings.Repeat("=", 30))
	_, _ = fmt.Fprintf(out, "Type %s to exit\n", strings.Join(quoted, ", "))
	_, _ = fmt.Fprintf(out, "Type '%s' to clear screen\n", clearCommand)
	_, _ = fmt.Fprintln(out)
}
