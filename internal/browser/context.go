// File: internal/browser/context.go
package browser

import (
	"context"
)

// CombineContext returns a context derived from primary (which carries the CDP
// target) that is also cancelled when secondary is. Values come from primary
// only.
func CombineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	stop := context.AfterFunc(secondary, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}
