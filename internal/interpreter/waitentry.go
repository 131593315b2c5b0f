package interpreter

import (
	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/primitives"
)

func waitEntryFor(idx int, requested model.ActionType) primitives.WaitEntry {
	return primitives.WaitEntry{ProcessIndex: idx, Requested: requested}
}
