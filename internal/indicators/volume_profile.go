package indicators

import (
	"context"
	"math"

	"cryptoPOC/internal/domain"
)

// DefaultBinCount is the histogram resolution used when none is configured.
const DefaultBinCount = 500

// VolumeProfile is a histogram of traded volume by close price.
// Bins split [Low, High] into equal widths; every bin is half-open except the last, which
// also contains High.
type VolumeProfile struct {
	Low      float64
	High     float64
	BinWidth float64
	Volumes  []float64
}

// BuildVolumeProfile bins the volume of each kline by its close price.
// Returns nil for an empty series. When every close is equal the profile has a single
// zero-width bin.
func BuildVolumeProfile(klines []*domain.Kline, binCount int) *VolumeProfile {
	if len(klines) == 0 {
		return nil
	}
	if binCount <= 0 {
		binCount = DefaultBinCount
	}

	prices := make([]float64, len(klines))
	volumes := make([]float64, len(klines))
	low, high := math.Inf(1), math.Inf(-1)
	for i, k := range klines {
		prices[i] = k.Close
		volumes[i] = k.Volume
		low = math.Min(low, k.Close)
		high = math.Max(high, k.Close)
	}

	if low == high {
		total := 0.0
		for _, v := range volumes {
			total += v
		}
		return &VolumeProfile{Low: low, High: high, Volumes: []float64{total}}
	}

	p := &VolumeProfile{
		Low:      low,
		High:     high,
		BinWidth: (high - low) / float64(binCount),
		Volumes:  make([]float64, binCount),
	}
	for i, price := range prices {
		p.Volumes[p.binIndex(price)] += volumes[i]
	}
	return p
}

// binIndex locates the bin holding price, correcting for rounding at bin edges.
func (p *VolumeProfile) binIndex(price float64) int {
	last := len(p.Volumes) - 1
	if price >= p.High {
		return last
	}
	idx := int((price - p.Low) / p.BinWidth)
	if idx > last {
		idx = last
	}
	if idx < 0 {
		idx = 0
	}
	if idx < last && price >= p.edge(idx+1) {
		idx++
	} else if idx > 0 && price < p.edge(idx) {
		idx--
	}
	return idx
}

func (p *VolumeProfile) edge(i int) float64 {
	if i == len(p.Volumes) {
		return p.High
	}
	return p.Low + float64(i)*p.BinWidth
}

// Edges returns the len(Volumes)+1 bin boundaries.
func (p *VolumeProfile) Edges() []float64 {
	edges := make([]float64, len(p.Volumes)+1)
	for i := range edges {
		edges[i] = p.edge(i)
	}
	return edges
}

// BinRange returns the lower and upper edge of bin i.
func (p *VolumeProfile) BinRange(i int) (float64, float64) {
	return p.edge(i), p.edge(i + 1)
}

// POCIndex returns the bin with the greatest volume. Ties go to the lowest index.
func (p *VolumeProfile) POCIndex() int {
	best := 0
	for i, v := range p.Volumes {
		if v > p.Volumes[best] {
			best = i
		}
	}
	return best
}

// POC returns the midpoint of the highest-volume bin.
func (p *VolumeProfile) POC() float64 {
	lo, hi := p.BinRange(p.POCIndex())
	return (lo + hi) / 2
}

// ComputePOC returns the Point of Control of a series: the midpoint of the close-price bin
// with the most traded volume. An empty series yields 0.
func ComputePOC(klines []*domain.Kline, binCount int) float64 {
	profile := BuildVolumeProfile(klines, binCount)
	if profile == nil {
		return 0
	}
	return profile.POC()
}

// POCConfig holds configuration for the Point of Control indicator
type POCConfig struct {
	BinCount int
}

// POCIndicator exposes ComputePOC through the Indicator interface
type POCIndicator struct {
	config POCConfig
}

var _ Indicator = (*POCIndicator)(nil)

// NewPOCIndicator creates a new Point of Control indicator instance
func NewPOCIndicator(config POCConfig) *POCIndicator {
	if config.BinCount <= 0 {
		config.BinCount = DefaultBinCount
	}
	return &POCIndicator{config: config}
}

// Name returns the name of the indicator
func (p *POCIndicator) Name() string {
	return "POC"
}

// RequiredDataPoints is zero: an empty series has a POC of 0 by convention.
func (p *POCIndicator) RequiredDataPoints() int {
	return 0
}

// BinCount returns the configured histogram resolution.
func (p *POCIndicator) BinCount() int {
	return p.config.BinCount
}

// Calculate computes the Point of Control for the given klines
func (p *POCIndicator) Calculate(ctx context.Context, klines []*domain.Kline) (float64, error) {
	return ComputePOC(klines, p.config.BinCount), nil
}
