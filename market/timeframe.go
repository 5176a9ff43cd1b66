package market

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrUnknownTimeframe = errors.New("unknown timeframe")

// ParseTimeframe converts exchange style timeframe strings ("1m", "15m",
// "1h", "4h", "1d", "1w") into a duration.
func ParseTimeframe(tf string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(tf))
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}

	switch s[len(s)-1] {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}
}

// FormatTimeframe is the inverse of ParseTimeframe for whole minutes,
// hours, days and weeks.
func FormatTimeframe(d time.Duration) (string, error) {
	if d <= 0 || d%time.Minute != 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownTimeframe, d)
	}

	const day = 24 * time.Hour
	switch {
	case d%(7*day) == 0:
		return fmt.Sprintf("%dw", d/(7*day)), nil
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day), nil
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour), nil
	default:
		return fmt.Sprintf("%dm", d/time.Minute), nil
	}
}

// Key builds the instrument key used by the signal index and the ledger.
func Key(timeframe, pair string) string {
	return timeframe + "-" + pair
}
