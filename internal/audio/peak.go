package audio

// PeakExtractor reduces each delivered block to its maximum absolute
// amplitude. When no block arrived since the last extraction it carries the
// previous peak for telemetry, but reports fresh=false so color selection
// stays gated on real data.
type PeakExtractor struct {
	buf  *Buffer
	last int
}

func NewPeakExtractor(buf *Buffer) *PeakExtractor {
	return &PeakExtractor{buf: buf}
}

// Extract consumes the latest block if one is pending. fresh is true only
// when a block was actually consumed this call.
func (e *PeakExtractor) Extract() (peak int, fresh bool) {
	block := e.buf.take()
	if block == nil {
		return e.last, false
	}
	peak = 0
	for _, s := range block {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	e.last = peak
	return peak, true
}
