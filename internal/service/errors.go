package service

import (
	"sort"
	"strings"
)

// FieldErrors carries field-keyed validation messages. It satisfies error so
// services can return it through the normal error path; handlers unwrap it
// into a 400 payload.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}
