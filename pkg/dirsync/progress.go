package dirsync

import "fmt"

// peakThroughput is the figure shown at 100%. It is decoration, not a measurement.
const peakThroughput = 9.2

// Progress is one synthetic progress notification
type Progress struct {
	Step       int
	Total      int
	Percent    float64
	Throughput float64
}

// Speed formats the cosmetic throughput figure
func (p Progress) Speed() string {
	return fmt.Sprintf("%.1f PB/s", p.Throughput)
}

// Complete reports whether the progress has reached its final step
func (p Progress) Complete() bool {
	return p.Step >= p.Total
}

func newProgress(step, total int) Progress {
	ratio := float64(step) / float64(total)
	return Progress{
		Step:       step,
		Total:      total,
		Percent:    ratio * 100,
		Throughput: ratio * peakThroughput,
	}
}

// Observer receives progress notifications while CopyTree runs. All calls are
// made from the goroutine that called CopyTree.
type Observer interface {
	Start(message string)
	Update(p Progress)
	Finish()
}

type nopObserver struct{}

func (nopObserver) Start(string)    {}
func (nopObserver) Update(Progress) {}
func (nopObserver) Finish()         {}
