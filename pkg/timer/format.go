package timer

import "fmt"

// Format renders seconds as mm:ss, clamping negatives to zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
