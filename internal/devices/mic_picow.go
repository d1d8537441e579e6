//go:build pico || pico_w

package devices

import (
	"machine"
	"time"
)

// Microphone samples the carrier board's analog mic on the ADC. Blocks are
// cut at the loop cadence; sampling runs on its own goroutine.
type Microphone struct {
	adc       machine.ADC
	blockSize int
}

func NewMicrophone(pin machine.Pin, blockSize int) (*Microphone, error) {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &Microphone{adc: adc, blockSize: blockSize}, nil
}

func (m *Microphone) Start(deliver func(block []int16)) error {
	go func() {
		block := make([]int16, m.blockSize)
		for {
			for i := range block {
				// Center the unsigned 16-bit sample around zero.
				block[i] = int16(int(m.adc.Get()) - 0x8000)
				time.Sleep(50 * time.Microsecond)
			}
			deliver(block)
		}
	}()
	return nil
}
