//go:build nano33ble

package devices

import (
	"machine"
)

// Microphone feeds blocks from the onboard PDM microphone. Read blocks
// until the DMA buffer fills, so delivery runs on its own goroutine.
type Microphone struct {
	pdm       machine.PDM
	blockSize int
}

func NewMicrophone(blockSize int) (*Microphone, error) {
	m := &Microphone{
		pdm:       machine.PDM{CLK: machine.PDM_CLK_PIN, DIN: machine.PDM_DIN_PIN},
		blockSize: blockSize,
	}
	if err := m.pdm.Configure(machine.PDMConfig{Stereo: false}); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Microphone) Start(deliver func(block []int16)) error {
	go func() {
		block := make([]int16, m.blockSize)
		for {
			m.pdm.Read(block)
			deliver(block)
		}
	}()
	return nil
}
