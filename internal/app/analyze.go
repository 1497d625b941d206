package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sha1n/analyzer-lab/internal/catalog"
	"github.com/sha1n/analyzer-lab/internal/tui"
	"github.com/sha1n/analyzer-lab/internal/workflow"
	"github.com/spf13/pflag"
)

// Output formats of the one-shot commands
const (
	OutputText = "text"
	OutputJSON = "json"
)

func checkOutput(output string) error {
	if output != OutputText && output != OutputJSON {
		return fmt.Errorf("unknown output format %q (expected %s or %s)", output, OutputText, OutputJSON)
	}
	return nil
}

// RunAnalyzeWithDeps runs a single analysis and prints the board (text) or the result (json)
func RunAnalyzeWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, inputs workflow.Inputs, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}

	settings, err := loadSettings(params, flags)
	if err != nil {
		return err
	}
	setupLogging(params, settings)

	eng, err := params.CreateEngine(settings)
	if err != nil {
		return err
	}

	board := workflow.NewBoard()
	orchestrator := workflow.NewOrchestrator(eng,
		workflow.WithTimeout(settings.Engine.Timeout),
		workflow.WithLogger(slog.Default()))

	session, err := workflow.StartSession(ctx, eng, orchestrator, board, settings.DefaultAnalyzer)
	if err != nil {
		return err
	}
	session.Apply(inputs)

	if err := session.Analyze(ctx); err != nil {
		var serr *workflow.SubmissionError
		if errors.As(err, &serr) {
			return fmt.Errorf("%w (%v)", err, serr.Err)
		}
		return err
	}

	if output == OutputJSON {
		return writeJSON(params.stdout(), session.Result())
	}
	_, err = fmt.Fprint(params.stdout(), tui.RenderBoard(board, 0))
	return err
}

// RunAnalyzersWithDeps prints the engine's analyzer catalog
func RunAnalyzersWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}

	settings, err := loadSettings(params, flags)
	if err != nil {
		return err
	}
	setupLogging(params, settings)

	eng, err := params.CreateEngine(settings)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(ctx, eng)
	if err != nil {
		return err
	}

	if output == OutputJSON {
		return writeJSON(params.stdout(), cat.All())
	}
	_, err = fmt.Fprint(params.stdout(), tui.RenderCatalog(cat, eng.Location()))
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
