package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidateAcceptsWellFormedInputs(t *testing.T) {
	procs := writeInputFile(t, "procs.txt", "A, 5, 0, 1\nB, 3, 2, 2\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--processes", procs})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "valid")
}

func TestValidateReportsMalformedProcesses(t *testing.T) {
	procs := writeInputFile(t, "procs.txt", "A, five, 0, 1\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--processes", procs})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "invalid")
}

func TestValidateCollectsErrorsAcrossAllThreeFiles(t *testing.T) {
	procs := writeInputFile(t, "procs.txt", "A, five, 0, 1\n")
	resources := writeInputFile(t, "resources.txt", " , 1\n")
	actions := writeInputFile(t, "actions.txt", "A, FROB, M, 0\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"--processes", procs,
		"--resources", resources,
		"--actions", actions,
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"valid":false`)
	assert.Contains(t, buf.String(), "E003")
	assert.Contains(t, buf.String(), "E005")
	assert.Contains(t, buf.String(), "E004")
}

func TestValidateMissingProcessesFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestValidateSkipsOptionalFilesWhenOmitted(t *testing.T) {
	procs := writeInputFile(t, "procs.txt", "A, 5, 0, 1\n")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--processes", procs})

	require.NoError(t, cmd.Execute())
}
