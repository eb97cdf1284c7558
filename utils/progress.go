package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type BarOptions struct {
	Prefix   string
	Suffix   string
	Decimals int
	Length   int
	Fill     string
}

// EstimateSecondsRemaining extrapolates the average time per completed item
// over the remaining items.
func EstimateSecondsRemaining(startTime time.Time, completed, total int64) float64 {
	return estimateRemaining(time.Since(startTime), completed, total)
}

func estimateRemaining(elapsed time.Duration, completed, total int64) float64 {
	remaining := total - completed
	if remaining <= 0 {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	avgTimePerItem := elapsed.Seconds() / float64(max(completed, 1))
	return avgTimePerItem * float64(remaining)
}

// FormatProgressBar returns a carriage return terminated progress line. The
// line gets a trailing newline once iteration reaches total. total must be
// positive, an empty source has to be handled by the caller.
func FormatProgressBar(iteration, total int64, opts BarOptions) string {
	fill := opts.Fill
	if fill == "" {
		fill = "█"
	}

	percent := strconv.FormatFloat(100*(float64(iteration)/float64(total)), 'f', opts.Decimals, 64)

	filledLength := int(int64(opts.Length) * iteration / total)
	filledLength = min(max(filledLength, 0), opts.Length)
	bar := strings.Repeat(fill, filledLength) + strings.Repeat("-", opts.Length-filledLength)

	line := fmt.Sprintf("\r%s |%s| %s%% %s\r", opts.Prefix, bar, percent, opts.Suffix)
	if iteration == total {
		line += "\n"
	}
	return line
}
