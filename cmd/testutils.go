//go:build small_tests || all_tests

package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

type CommandTestFixture struct {
	Cmd    *cobra.Command
	Stdout *strings.Builder
	Stderr *strings.Builder
}

func NewCommandTestFixture(cmd *cobra.Command) *CommandTestFixture {
	stdout := &strings.Builder{}
	stderr := &strings.Builder{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{})
	return &CommandTestFixture{cmd, stdout, stderr}
}

func (f *CommandTestFixture) ExecuteAndAssertStdoutContains(
	t *testing.T, expectedOutput string,
) {
	t.Helper()

	assert.NilError(t, f.Cmd.Execute())
	assert.Assert(t, is.Contains(f.Stdout.String(), expectedOutput))
}

func (f *CommandTestFixture) ExecuteAndAssertErrorContains(
	t *testing.T, expectedErrMsg string,
) (err error) {
	t.Helper()

	err = f.Cmd.Execute()
	assert.ErrorContains(t, err, expectedErrMsg)
	return
}
