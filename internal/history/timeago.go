package history

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders a unix-millisecond timestamp relative to now
func FormatTimeAgo(timestamp int64, now time.Time) string {
	seconds := (now.UnixMilli() - timestamp) / 1000

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	default:
		return fmt.Sprintf("%dd ago", seconds/86400)
	}
}
