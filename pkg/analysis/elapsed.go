package analysis

import (
	"fmt"
	"time"
)

// FormatElapsed renders a span as "D days, H:M:S hours", or "H:M:S hours"
// below one day. Fields are not zero padded and fractions are dropped.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	hours, minutes, seconds := rem/3600, (rem%3600)/60, rem%60

	if days > 0 {
		return fmt.Sprintf("%d days, %d:%d:%d hours", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%d:%d hours", hours, minutes, seconds)
}
