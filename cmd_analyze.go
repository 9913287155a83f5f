package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/intake"
)

var analyzeFlags struct {
	model  string
	strict bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [description]",
	Short: "Turn a legal problem description into a case brief",
	Long: `Analyze runs the intake analyzer once and prints the case brief as JSON.

Usage:
  lexmatch-api analyze "My cofounder left and wants 50%"
  echo "My cofounder left and wants 50%" | lexmatch-api analyze

The description must be at least 20 characters. When the AI provider is
unavailable the fallback brief is printed and the failure is reported on
stderr. Pass --strict to exit non-zero in that case.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.model, "model", "", "Model name (default: $GEMINI_MODEL)")
	f.BoolVar(&analyzeFlags.strict, "strict", false, "Fail when the fallback brief had to be used")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	raw, err := readDescription(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if err := intake.ValidateIntake(raw); err != nil {
		return err
	}

	cfg := config.New()
	defer func() { _ = zap.L().Sync() }()

	model := cfg.GeminiModel
	if analyzeFlags.model != "" {
		model = analyzeFlags.model
	}

	var provider intake.Provider
	if cfg.GeminiAPIKey != "" {
		p, err := intake.NewGeminiProvider(cmd.Context(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("create gemini provider: %w", err)
		}
		provider = p
	}

	a := intake.NewAnalyzer(provider, intake.WithModel(model), intake.WithTimeout(cfg.AnalyzeTimeout))
	out := a.Diagnose(cmd.Context(), raw)
	if err := writeBrief(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if out.Degraded() {
		fmt.Fprintf(cmd.ErrOrStderr(), "analysis degraded (%s): %v\n", out.Failure, out.Err)
		if analyzeFlags.strict {
			return fmt.Errorf("analysis failed: %s", out.Failure)
		}
	}
	return nil
}

// readDescription joins the positional args, or reads stdin when there are none.
// A trailing newline from stdin is dropped.
func readDescription(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func writeBrief(w io.Writer, out intake.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Brief)
}
