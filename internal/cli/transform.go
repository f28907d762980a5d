package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/listbot"
	"github.com/aretw0/listbot/pkg/bot"
	"github.com/aretw0/listbot/pkg/listops"
)

// ErrMissingInput is returned when an operation gets fewer inputs than it needs.
var ErrMissingInput = errors.New("missing input")

// TransformOptions configures a one-shot transformation.
type TransformOptions struct {
	Op           string
	Files        []string
	MaxInputSize int
	In           io.Reader
	Out          io.Writer
}

// RunTransform reads the inputs (files, or stdin when none are given), runs one
// operation and writes the text a chat user would see.
func RunTransform(app *listbot.App, opts TransformOptions) error {
	op, err := listops.ParseOp(opts.Op)
	if err != nil {
		return err
	}

	inputs, err := readInputs(opts)
	if err != nil {
		return err
	}
	if len(inputs) != op.Arity() {
		return fmt.Errorf("%w: %s takes %d input(s), got %d", ErrMissingInput, op, op.Arity(), len(inputs))
	}

	for i, in := range inputs {
		clean, err := bot.SanitizeInput(in, opts.MaxInputSize)
		if err != nil {
			return fmt.Errorf("input %d rejected: %w", i+1, err)
		}
		inputs[i] = clean
	}

	res, err := app.Transform(opts.Op, inputs...)
	if err != nil {
		return err
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, res.Display())
	return err
}

func readInputs(opts TransformOptions) ([]string, error) {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	if len(opts.Files) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []string{string(data)}, nil
	}

	inputs := make([]string, 0, len(opts.Files))
	for _, path := range opts.Files {
		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(in)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, string(data))
	}
	return inputs, nil
}
