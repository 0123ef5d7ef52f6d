package assert

import (
	"fmt"
)

// That panics with the formatted message if cond does not hold.
// Checks are compiled in only when building with the debug tag.
func That(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
