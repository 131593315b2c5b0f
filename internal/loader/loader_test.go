package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/cyclesim/internal/model"
)

func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadProcessesParsesValidLines(t *testing.T) {
	path := writeTempFile(t, "processes.txt", "A, 5, 0, 1\nB,3,2,2\n\nC, 4, 4, 1\n")

	procs, err := LoadProcesses(path)
	require.NoError(t, err)
	require.Len(t, procs, 3)
	assert.Equal(t, model.Process{ID: "A", Burst: 5, Arrival: 0, Priority: 1}, procs[0])
	assert.Equal(t, model.Process{ID: "B", Burst: 3, Arrival: 2, Priority: 2}, procs[1])
	assert.Equal(t, model.Process{ID: "C", Burst: 4, Arrival: 4, Priority: 1}, procs[2])
}

func TestLoadProcessesRejectsWrongFieldCount(t *testing.T) {
	path := writeTempFile(t, "processes.txt", "A, 5, 0\n")

	_, err := LoadProcesses(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeFieldCount, loadErr.Code)
	assert.Equal(t, 1, loadErr.Line)
}

func TestLoadProcessesRejectsNonIntegerField(t *testing.T) {
	path := writeTempFile(t, "processes.txt", "A, five, 0, 1\n")

	_, err := LoadProcesses(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeInvalidInt, loadErr.Code)
}

func TestLoadResourcesParsesValidLines(t *testing.T) {
	path := writeTempFile(t, "resources.txt", "M, 1\nS, 3\n")

	resources, err := LoadResources(path)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, model.Resource{Name: "M", Capacity: 1}, resources[0])
	assert.Equal(t, model.Resource{Name: "S", Capacity: 3}, resources[1])
}

func TestLoadResourcesRejectsEmptyName(t *testing.T) {
	path := writeTempFile(t, "resources.txt", " , 1\n")

	_, err := LoadResources(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeEmptyIdentifier, loadErr.Code)
}

func TestLoadActionsParsesValidLines(t *testing.T) {
	path := writeTempFile(t, "actions.txt", "A, acquire, M, 0\nA, release, M, 3\n")

	actions, err := LoadActions(path)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, model.Action{ProcessID: "A", Type: model.Acquire, Resource: "M", Cycle: 0}, actions[0])
	assert.Equal(t, model.Action{ProcessID: "A", Type: model.Release, Resource: "M", Cycle: 3}, actions[1])
}

func TestLoadActionsRejectsUnknownType(t *testing.T) {
	path := writeTempFile(t, "actions.txt", "A, FROB, M, 0\n")

	_, err := LoadActions(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeInvalidType, loadErr.Code)
}

func TestLoadActionsRejectsWakeAsInputType(t *testing.T) {
	path := writeTempFile(t, "actions.txt", "A, WAKE, M, 0\n")

	_, err := LoadActions(path)
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeInvalidType, loadErr.Code)
}

func TestLoadProcessesMissingFileFails(t *testing.T) {
	_, err := LoadProcesses(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeReadFailed, loadErr.Code)
}
