package hook

import (
	"reflect"
	"slices"
)

// depsChanged compares two dependency snapshots by value. A different
// length, or a different dynamic type at any position, counts as a change.
func depsChanged(prev, cur []any) bool {
	if len(prev) != len(cur) {
		return true
	}
	for i := range prev {
		if reflect.TypeOf(prev[i]) != reflect.TypeOf(cur[i]) {
			return true
		}
		if !reflect.DeepEqual(prev[i], cur[i]) {
			return true
		}
	}
	return false
}

func snapshot(deps []any) []any {
	if len(deps) == 0 {
		return nil
	}
	return slices.Clone(deps)
}
