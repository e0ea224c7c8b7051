package projector

import "reflect"

// TypeName reflects T's zero value into a human-readable type name. Used as
// the default Session "kind" tag and the default checkpoint state key, both
// of which the spec defines as defaulting to "the type name of P".
func TypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "unknown"
	}
	return t.String()
}
