package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/intake"
	"github.com/linesmerrill/lexmatch-api/models"
)

const cofounderIntake = "My cofounder left and wants 50%"

func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	analyzeFlags.model = ""
	analyzeFlags.strict = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_FallbackWithoutKey(t *testing.T) {
	stdout, stderr, err := runRoot(t, "", "analyze", cofounderIntake)
	require.NoError(t, err)

	var brief models.CaseBrief
	require.NoError(t, json.Unmarshal([]byte(stdout), &brief))
	assert.Equal(t, intake.Fallback(cofounderIntake), brief)
	assert.Contains(t, stderr, "analysis degraded (transport)")
}

func TestAnalyze_ReadsStdin(t *testing.T) {
	stdout, _, err := runRoot(t, cofounderIntake+"\n", "analyze")
	require.NoError(t, err)

	var brief models.CaseBrief
	require.NoError(t, json.Unmarshal([]byte(stdout), &brief))
	assert.Equal(t, cofounderIntake, brief.Summary)
}

func TestAnalyze_Strict(t *testing.T) {
	_, _, err := runRoot(t, "", "analyze", "--strict", cofounderIntake)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport")
}

func TestAnalyze_RejectsShortInput(t *testing.T) {
	_, _, err := runRoot(t, "", "analyze", "help")
	assert.ErrorIs(t, err, intake.ErrIntakeTooShort)

	_, _, err = runRoot(t, "   ", "analyze")
	assert.ErrorIs(t, err, intake.ErrIntakeEmpty)
}

func TestReadDescription_JoinsArgs(t *testing.T) {
	got, err := readDescription(strings.NewReader("ignored"), []string{"My", "cofounder", "left"})
	require.NoError(t, err)
	assert.Equal(t, "My cofounder left", got)
}
