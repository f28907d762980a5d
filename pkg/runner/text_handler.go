package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/listbot/pkg/domain"
	"golang.org/x/term"
)

// ContentRenderer turns Markdown into terminal output.
type ContentRenderer func(string) (string, error)

// EventKind tells what a piece of input means.
type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventButton
)

// Event is one complete unit of user input.
type Event struct {
	Kind  EventKind
	Value string
}

// ErrNoSuchButton is returned for a "#N" line that matches no button.
var ErrNoSuchButton = errors.New("no such button")

// TextHandler reads events from a line stream and prints replies.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	prompt   bool
	keyboard []domain.Button

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	line string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the Markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt forces the "> " prompt on or off. By default it is shown when the
// input is a terminal.
func WithPrompt(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.prompt = enabled
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		prompt: IsTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump blocks on the reader so that Read can honour context cancellation.
func (h *TextHandler) pump() {
	for {
		line, err := h.Reader.ReadString('\n')
		if line != "" {
			h.inputChan <- inputResult{line: line}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Read returns the next event. It returns io.EOF when the input is exhausted.
func (h *TextHandler) Read(ctx context.Context) (Event, error) {
	h.initPump()

	var message []string
	h.showPrompt()
	for {
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				if len(message) > 0 {
					return Event{Kind: EventText, Value: strings.Join(message, "\n")}, nil
				}
				return Event{}, io.EOF
			}
			if res.err != nil {
				return Event{}, res.err
			}

			line := strings.TrimRight(res.line, "\r\n")
			trimmed := strings.TrimSpace(line)

			if len(message) == 0 {
				switch {
				case trimmed == "":
					h.showPrompt()
					continue
				case strings.HasPrefix(trimmed, "/"):
					return Event{Kind: EventCommand, Value: trimmed}, nil
				case isButton(trimmed):
					return Event{Kind: EventButton, Value: trimmed[1:]}, nil
				}
			} else if trimmed == "" {
				return Event{Kind: EventText, Value: strings.Join(message, "\n")}, nil
			}
			message = append(message, line)
		}
	}
}

func isButton(s string) bool {
	if len(s) < 2 || s[0] != '#' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func (h *TextHandler) showPrompt() {
	if h.prompt {
		fmt.Fprint(h.Writer, "> ")
	}
}

// Button resolves a 1-based button number of the last keyboard to its callback data.
func (h *TextHandler) Button(number string) (string, error) {
	n, err := strconv.Atoi(number)
	if err != nil || n < 1 || n > len(h.keyboard) {
		return "", fmt.Errorf("%w: #%s", ErrNoSuchButton, number)
	}
	return h.keyboard[n-1].Data, nil
}

// Output prints replies. Banners are not shown; keyboards become numbered choices.
func (h *TextHandler) Output(replies []domain.Reply) {
	for _, reply := range replies {
		text := reply.Text
		if reply.Markdown && h.Renderer != nil {
			if rendered, err := h.Renderer(text); err == nil {
				text = rendered
			}
		}
		fmt.Fprintln(h.Writer, strings.TrimSpace(text))

		if len(reply.Keyboard) == 0 {
			continue
		}
		h.keyboard = h.keyboard[:0]
		for _, row := range reply.Keyboard {
			var cells []string
			for _, btn := range row {
				h.keyboard = append(h.keyboard, btn)
				cells = append(cells, fmt.Sprintf("[#%d] %s", len(h.keyboard), btn.Text))
			}
			fmt.Fprintln(h.Writer, "  "+strings.Join(cells, "   "))
		}
	}
}

// SystemOutput prints a message that does not come from the router.
func (h *TextHandler) SystemOutput(msg string) {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
}
