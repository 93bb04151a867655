package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const barWidth = 40

// ProgressReader tracks the number of bytes read and draws a progress bar on Out.
type ProgressReader struct {
	Total   int64
	Current int64
	Reader  io.Reader
	Out     io.Writer
	Label   string

	startTime  time.Time
	lastUpdate time.Time
}

func NewProgressReader(label string, total int64, r io.Reader, out io.Writer) *ProgressReader {
	return &ProgressReader{
		Total:     total,
		Reader:    r,
		Out:       out,
		Label:     label,
		startTime: time.Now(),
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Current += int64(n)
	pr.printProgress()
	return n, err
}

func (pr *ProgressReader) printProgress() {
	if pr.Out == nil || pr.Total <= 0 {
		return
	}
	// Only update every 100ms or if complete to avoid flashing
	if pr.Current < pr.Total && time.Since(pr.lastUpdate) < 100*time.Millisecond {
		return
	}
	pr.lastUpdate = time.Now()

	fmt.Fprintf(pr.Out, "\r%s [%s] %.1f%% (%.2f MB/s)",
		pr.Label, Bar(pr.Current, pr.Total, barWidth), Percent(pr.Current, pr.Total), pr.speed())
	if pr.Current >= pr.Total {
		fmt.Fprintln(pr.Out)
	}
}

func (pr *ProgressReader) speed() float64 {
	duration := time.Since(pr.startTime).Seconds()
	if duration == 0 {
		duration = 0.0001
	}
	return float64(pr.Current) / (1024 * 1024) / duration
}

// Percent is current as a share of total, clamped to [0, 100].
func Percent(current, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(current) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// Bar renders a fixed width bar, filled in proportion to current/total.
func Bar(current, total int64, width int) string {
	completed := int(Percent(current, total) / 100 * float64(width))
	return strings.Repeat("█", completed) + strings.Repeat("░", width-completed)
}
