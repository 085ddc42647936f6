package match

import (
	"fmt"
	"strings"
)

// MaxManualSeconds bounds operator-entered times.
const MaxManualSeconds = 3600

// ParseManualTime reads an MMSS digit string. Shorter inputs are left-padded
// with zeros, so "5" is 00:05 and "125" is 01:25.
func ParseManualTime(digits string) (int, error) {
	digits = strings.TrimSpace(digits)
	if len(digits) == 0 || len(digits) > 4 {
		return 0, fmt.Errorf("%w: %q must have 1 to 4 digits", ErrInvalidManualTime, digits)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidManualTime, digits)
		}
	}

	padded := strings.Repeat("0", 4-len(digits)) + digits
	minutes := int(padded[0]-'0')*10 + int(padded[1]-'0')
	seconds := int(padded[2]-'0')*10 + int(padded[3]-'0')
	if minutes > 59 {
		return 0, fmt.Errorf("%w: minutes %d out of range", ErrInvalidManualTime, minutes)
	}
	if seconds > 59 {
		return 0, fmt.Errorf("%w: seconds %d out of range", ErrInvalidManualTime, seconds)
	}
	return minutes*60 + seconds, nil
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
