// clock.go - wall-clock millisecond time source used for GymMemory's
// elapsed-time derivation (idle suppression keeps its own time.Now clock).

package ntcpycon

import "time"

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
