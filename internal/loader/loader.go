// Package loader reads the three plain-text input vectors — processes,
// resources, and the synchronization action script — into their
// immutable model types. Malformed lines fail the whole load with a
// descriptive, line-numbered error; there is no partial load.
package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/halvard/cyclesim/internal/model"
)

// LoadError reports a malformed input line with enough context to find
// and fix it.
type LoadError struct {
	Code    string
	Path    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
}

const (
	ErrCodeReadFailed      = "E001"
	ErrCodeFieldCount      = "E002"
	ErrCodeInvalidInt      = "E003"
	ErrCodeInvalidType     = "E004"
	ErrCodeEmptyIdentifier = "E005"
)

// readLines reads path and returns its non-blank, whitespace-trimmed
// lines alongside their 1-based line numbers.
func readLines(path string) ([]string, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error()}
	}

	var lines []string
	var numbers []int
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		numbers = append(numbers, i+1)
	}
	return lines, numbers, nil
}

func splitFields(path string, lineNo int, line string, want int) ([]string, error) {
	raw := strings.Split(line, ",")
	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	if len(fields) != want {
		return nil, &LoadError{
			Code: ErrCodeFieldCount, Path: path, Line: lineNo,
			Message: fmt.Sprintf("expected %d comma-separated fields, got %d", want, len(fields)),
		}
	}
	return fields, nil
}

func parseInt(path string, lineNo int, field, name string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, &LoadError{
			Code: ErrCodeInvalidInt, Path: path, Line: lineNo,
			Message: fmt.Sprintf("%s %q is not an integer", name, field),
		}
	}
	return n, nil
}

func requireNonEmpty(path string, lineNo int, field, name string) error {
	if field == "" {
		return &LoadError{
			Code: ErrCodeEmptyIdentifier, Path: path, Line: lineNo,
			Message: fmt.Sprintf("%s must not be empty", name),
		}
	}
	return nil
}

// LoadProcesses parses `pid, burst, arrival, priority` lines.
func LoadProcesses(path string) ([]model.Process, error) {
	lines, numbers, err := readLines(path)
	if err != nil {
		return nil, err
	}

	procs := make([]model.Process, 0, len(lines))
	for i, line := range lines {
		lineNo := numbers[i]
		fields, err := splitFields(path, lineNo, line, 4)
		if err != nil {
			return nil, err
		}
		if err := requireNonEmpty(path, lineNo, fields[0], "pid"); err != nil {
			return nil, err
		}
		burst, err := parseInt(path, lineNo, fields[1], "burst")
		if err != nil {
			return nil, err
		}
		arrival, err := parseInt(path, lineNo, fields[2], "arrival")
		if err != nil {
			return nil, err
		}
		priority, err := parseInt(path, lineNo, fields[3], "priority")
		if err != nil {
			return nil, err
		}
		procs = append(procs, model.Process{ID: fields[0], Burst: burst, Arrival: arrival, Priority: priority})
	}
	return procs, nil
}

// LoadResources parses `name, count` lines.
func LoadResources(path string) ([]model.Resource, error) {
	lines, numbers, err := readLines(path)
	if err != nil {
		return nil, err
	}

	resources := make([]model.Resource, 0, len(lines))
	for i, line := range lines {
		lineNo := numbers[i]
		fields, err := splitFields(path, lineNo, line, 2)
		if err != nil {
			return nil, err
		}
		if err := requireNonEmpty(path, lineNo, fields[0], "resource name"); err != nil {
			return nil, err
		}
		count, err := parseInt(path, lineNo, fields[1], "count")
		if err != nil {
			return nil, err
		}
		resources = append(resources, model.Resource{Name: fields[0], Capacity: count})
	}
	return resources, nil
}

// LoadActions parses `pid, type, resource, cycle` lines. type must be
// one of READ, WRITE, ACQUIRE, RELEASE, WAIT, SIGNAL.
func LoadActions(path string) ([]model.Action, error) {
	lines, numbers, err := readLines(path)
	if err != nil {
		return nil, err
	}

	actions := make([]model.Action, 0, len(lines))
	for i, line := range lines {
		lineNo := numbers[i]
		fields, err := splitFields(path, lineNo, line, 4)
		if err != nil {
			return nil, err
		}
		if err := requireNonEmpty(path, lineNo, fields[0], "pid"); err != nil {
			return nil, err
		}
		actionType := model.ActionType(strings.ToUpper(fields[1]))
		if !model.ValidActionTypes[actionType] {
			return nil, &LoadError{
				Code: ErrCodeInvalidType, Path: path, Line: lineNo,
				Message: fmt.Sprintf("unknown action type %q", fields[1]),
			}
		}
		if err := requireNonEmpty(path, lineNo, fields[2], "resource"); err != nil {
			return nil, err
		}
		cycle, err := parseInt(path, lineNo, fields[3], "cycle")
		if err != nil {
			return nil, err
		}
		actions = append(actions, model.Action{ProcessID: fields[0], Type: actionType, Resource: fields[2], Cycle: cycle})
	}
	return actions, nil
}
