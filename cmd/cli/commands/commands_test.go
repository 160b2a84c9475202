package commands

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/scoring"
	"github.com/jakechorley/device-loans/pkg/core/weights"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "empty", line: "", want: nil},
		{name: "plain words", line: "markAbsent abc-123", want: []string{"markAbsent", "abc-123"}},
		{name: "extra spaces", line: "  viewRanking   --all ", want: []string{"viewRanking", "--all"}},
		{name: "double quotes", line: `registerApplicant "Ana María López" --occupation student`, want: []string{"registerApplicant", "Ana María López", "--occupation", "student"}},
		{name: "single quotes", line: `addResources 'Tablet A' 'Tablet B'`, want: []string{"addResources", "Tablet A", "Tablet B"}},
		{name: "empty quoted arg", line: `registerApplicant "" --age ""`, want: []string{"registerApplicant", "", "--age", ""}},
		{name: "unclosed quote", line: `registerApplicant "Ana`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStates(t *testing.T) {
	states, err := parseStates("assigned, absent_1")
	require.NoError(t, err)
	assert.Equal(t, []model.AssignmentState{model.AssignmentAssigned, model.AssignmentAbsent1}, states)

	states, err = parseStates("")
	require.NoError(t, err)
	assert.Nil(t, states)

	_, err = parseStates("assigned,lost")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	got, err := parseDate("today", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseDate("2025-04-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", got.Format(model.DateLayout))

	_, err = parseDate("01/04/2025", now)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Ana Marí…", truncate("Ana María López", 9))
	assert.Equal(t, "A", truncate("Ana", 1))
}

func TestFormatAge(t *testing.T) {
	age := 34
	assert.Equal(t, "34", formatAge(&age))
	assert.Equal(t, "?", formatAge(nil))
}

func TestFormatTerms(t *testing.T) {
	terms := scoring.Terms{Occupation: 12, Internet: 10, Device: 20, Age: 3}
	assert.Equal(t, "occ 12 + net 10 + dev 20 + age 3", formatTerms(terms))
}

func TestFormatWeights_MarksChangedAttributes(t *testing.T) {
	live := weights.GlobalWeights{Occupation: 4, Internet: 5, Device: 4, Age: 3}
	draft := live.With(weights.AttributeAge, 7)

	assert.Equal(t, "occupation=4  internet=5  device=4  age=3", formatWeights(live, live))
	assert.Equal(t, "occupation=4  internet=5  device=4  age=7*", formatWeights(draft, live))
}

func TestStateColor(t *testing.T) {
	assert.Equal(t, colorGreen, stateColor(model.AssignmentAssigned))
	assert.Equal(t, colorYellow, stateColor(model.AssignmentAbsent1))
	assert.Equal(t, colorRed, stateColor(model.AssignmentRemoved))
	assert.Equal(t, colorGray, stateColor(model.AssignmentDelivered))
}

// newSessionRoot builds a root with one recording command, one failing command and initConfig
func newSessionRoot(calls *[]string) *cobra.Command {
	root := &cobra.Command{Use: "cli"}

	echo := &cobra.Command{
		Use:  "echo <word>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loud, _ := cmd.Flags().GetBool("loud")
			word := args[0]
			if loud {
				word = strings.ToUpper(word)
			}
			*calls = append(*calls, word)
			return nil
		},
	}
	echo.Flags().Bool("loud", false, "")

	fail := &cobra.Command{
		Use: "fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			*calls = append(*calls, "fail")
			return errors.New("boom")
		},
	}

	env := "test"
	root.AddCommand(echo, fail, InitConfigCmd(&env))
	return root
}

func TestSessionCommands_ExcludesInitCommands(t *testing.T) {
	var calls []string
	root := newSessionRoot(&calls)

	commands := sessionCommands(root)
	assert.Contains(t, commands, "echo")
	assert.Contains(t, commands, "fail")
	assert.NotContains(t, commands, "initConfig")
}

func TestRunInSession_ResetsFlagsBetweenRuns(t *testing.T) {
	var calls []string
	root := newSessionRoot(&calls)
	echo := sessionCommands(root)["echo"]

	require.NoError(t, runInSession(echo, []string{"--loud", "hello"}))
	require.NoError(t, runInSession(echo, []string{"again"}))
	assert.Equal(t, []string{"HELLO", "again"}, calls)

	err := runInSession(echo, []string{})
	assert.Error(t, err)
	assert.Len(t, calls, 2)
}

func TestInteractive_RunsCommandsUntilExit(t *testing.T) {
	var calls []string
	root := newSessionRoot(&calls)

	app := &AppContext{Logger: zap.NewNop()}
	input := strings.NewReader("echo one\n\nunknown\nfail\necho --loud 'two words'\nexit\necho never\n")
	interactive := InteractiveCmd(app, input)
	root.AddCommand(interactive)

	err := interactive.RunE(interactive, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "fail", "TWO WORDS"}, calls)
}
