// Package audio carries microphone blocks from the producer (an interrupt on
// device) to the control loop and turns them into a peak amplitude.
package audio

import "sync/atomic"

// Buffer is a single-producer/single-consumer handoff for sample blocks.
// The producer fills the half not currently published and then publishes it
// together with its sample count; the consumer swaps the count to zero when
// it takes the block. The count is the only synchronization point, so it is
// atomic. A delivery racing an extraction costs at most one dropped block,
// never a torn scan.
type Buffer struct {
	blocks [2][]int16
	front  atomic.Uint32 // index of the published block
	count  atomic.Int32  // valid samples in the published block, 0 = consumed
}

func NewBuffer(capacity int) *Buffer {
	b := &Buffer{}
	b.blocks[0] = make([]int16, capacity)
	b.blocks[1] = make([]int16, capacity)
	return b
}

// Capacity is the fixed block size in samples.
func (b *Buffer) Capacity() int { return len(b.blocks[0]) }

// Push copies at most Capacity samples into the back block and publishes it,
// overwriting any block the consumer has not taken yet. Safe to call from an
// interrupt; it does not allocate or block.
func (b *Buffer) Push(samples []int16) {
	back := 1 - b.front.Load()
	n := copy(b.blocks[back], samples)
	b.front.Store(back)
	b.count.Store(int32(n))
}

// take claims the published block. It returns nil when nothing new arrived
// since the last take.
func (b *Buffer) take() []int16 {
	n := b.count.Swap(0)
	if n == 0 {
		return nil
	}
	return b.blocks[b.front.Load()][:n]
}
