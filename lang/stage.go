package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Stage is one step applied to a parsed program after assembly.
type Stage interface {
	Name() string
	Run(ctx context.Context, ir *IR) (*IR, error)
}

// Progress is implemented by stages that print markers around their run.
type Progress interface {
	Begin(w io.Writer, ir *IR) error
	End(w io.Writer, ir *IR) error
}

// Built-in stages. Both currently return their input unchanged.
var (
	Optimise  Stage = optimiser{}
	Interpret Stage = interpreter{}
)

type optimiser struct{}

func (optimiser) Name() string { return "optimise" }

func (optimiser) Run(_ context.Context, ir *IR) (*IR, error) { return ir, nil }

func (optimiser) Begin(io.Writer, *IR) error { return nil }

func (optimiser) End(w io.Writer, ir *IR) error {
	if _, err := io.WriteString(w, "optimised form: "); err != nil {
		return err
	}

	return ir.FormatTree(w)
}

type interpreter struct{}

func (interpreter) Name() string { return "interpret" }

func (interpreter) Run(_ context.Context, ir *IR) (*IR, error) { return ir, nil }

func (interpreter) Begin(w io.Writer, _ *IR) error {
	_, err := fmt.Fprintln(w, "Interpreter Started")

	return err
}

func (interpreter) End(w io.Writer, _ *IR) error {
	_, err := fmt.Fprintln(w, "Interpretation Done")

	return err
}

// Pipeline runs stages over ir in order, each receiving the previous result,
// and returns the final IR. It stops at the first stage that fails; the error
// wraps ErrStage and names the stage.
func Pipeline(ctx context.Context, ir *IR, w io.Writer, stages ...Stage) (*IR, error) {
	logger := loggerFrom(ctx)

	for _, s := range stages {
		prog, reports := s.(Progress)

		if reports {
			if err := prog.Begin(w, ir); err != nil {
				return nil, err
			}
		}

		logger.DebugContext(ctx, "stage started", slog.String("stage", s.Name()))

		next, err := s.Run(ctx, ir)
		if err != nil {
			return nil, ErrStage.Wrap(err).With(slog.String("stage", s.Name()))
		}

		ir = next

		logger.DebugContext(ctx, "stage done",
			slog.String("stage", s.Name()),
			slog.Int("declarations", ir.Len()),
		)

		if reports {
			if err := prog.End(w, ir); err != nil {
				return nil, err
			}
		}
	}

	return ir, nil
}
