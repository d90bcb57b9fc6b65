package events

import (
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/logging"
)

// emit traces event with a payload built from alternating keys and values.
// Errors are flattened to their message; nil errors are left out.
func emit(event string, kv ...interface{}) {
	payload := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		switch v := kv[i+1].(type) {
		case error:
			payload[key] = v.Error()
		case nil:
		default:
			payload[key] = v
		}
	}
	logging.Trace(event, payload)
}
