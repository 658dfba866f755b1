package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatTick formats a millisecond position as an axis tick label "M:SS"
// (unpadded minutes, zero-padded seconds). Sub-second remainders are dropped.
// Example: 150000 → "2:30".
func FormatTick(ms float64) string {
	total := int64(ms) / 1000
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatTooltip formats a millisecond position as a tooltip title "Mm Ss"
// with unpadded seconds. Example: 125000 → "2m 5s".
func FormatTooltip(ms float64) string {
	total := int64(ms) / 1000
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// FormatLapTime formats milliseconds as "MM:SS.mmm".
// Example: 83456 → "01:23.456".
func FormatLapTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%02d:%02d.%03d", seconds/60, seconds%60, ms%1000)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatSignedPercent formats a deviation with an explicit sign and two
// decimal places. Example: -0.4 → "-0.40%".
func FormatSignedPercent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}

// FormatCount formats an integer with comma separators. Example: 12345 → "12,345".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

var (
	reMinSec      = regexp.MustCompile(`^(\d+)m\s*(\d+)s$`)
	reColon       = regexp.MustCompile(`^(\d+):(\d+)$`)
	reSeconds     = regexp.MustCompile(`^(\d+)s$`)
	reColonMillis = regexp.MustCompile(`^(\d+):(\d{2})\.(\d{1,3})$`)
)

// ParseTime parses a duration given as plain milliseconds ("150000"),
// "M:SS.mmm", "Mm Ss", "M:SS" or "Ss" and returns milliseconds.
// Seconds must be in [0, 59] wherever minutes are also given. A 1 or 2 digit
// millisecond part is scaled (".5" → 500, ".45" → 450).
func ParseTime(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("time cannot be empty")
	}

	if ms, err := strconv.Atoi(s); err == nil && ms >= 0 {
		return ms, nil
	}

	if m := reColonMillis.FindStringSubmatch(s); m != nil {
		minutes, seconds, err := minutesSeconds(m[1], m[2])
		if err != nil {
			return 0, err
		}
		millis, err := ScaleMillis(m[3])
		if err != nil {
			return 0, err
		}
		return minutes*60_000 + seconds*1_000 + millis, nil
	}

	for _, re := range []*regexp.Regexp{reMinSec, reColon} {
		if m := re.FindStringSubmatch(s); m != nil {
			minutes, seconds, err := minutesSeconds(m[1], m[2])
			if err != nil {
				return 0, err
			}
			return minutes*60_000 + seconds*1_000, nil
		}
	}

	if m := reSeconds.FindStringSubmatch(s); m != nil {
		seconds, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid seconds %q: %w", m[1], err)
		}
		return seconds * 1_000, nil
	}

	return 0, fmt.Errorf("invalid time format %q (use 2:30, 2m30s, 150s or 150000)", input)
}

// ScaleMillis parses a 1-3 digit fractional second part into milliseconds.
func ScaleMillis(digits string) (int, error) {
	if len(digits) == 0 || len(digits) > 3 {
		return 0, fmt.Errorf("invalid milliseconds %q", digits)
	}
	ms, err := strconv.Atoi(digits)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid milliseconds %q", digits)
	}
	switch len(digits) {
	case 1:
		ms *= 100
	case 2:
		ms *= 10
	}
	return ms, nil
}

func minutesSeconds(min, sec string) (int, int, error) {
	minutes, err := strconv.Atoi(min)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minutes %q: %w", min, err)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid seconds %q: %w", sec, err)
	}
	if seconds > 59 {
		return 0, 0, fmt.Errorf("invalid seconds %d (must be 0-59)", seconds)
	}
	return minutes, seconds, nil
}
