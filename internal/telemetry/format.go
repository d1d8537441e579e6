package telemetry

import (
	"fmt"
	"io"
)

// Unit conversions applied at format time; frames stay in sensor units.
const (
	microteslaPerGauss = 100
	mmHgPerKPa         = 7.50062
	lightDivisor       = 16
)

// Formatter writes one telemetry line per frame. With labels every field is
// prefixed by its name; without, the line is bare fixed-width columns.
type Formatter struct {
	w      io.Writer
	labels bool
}

func NewFormatter(w io.Writer, labels bool) *Formatter {
	return &Formatter{w: w, labels: labels}
}

func (f *Formatter) Emit(fr Frame) {
	if f.labels {
		fmt.Fprintf(f.w,
			"aX %7.2f aY %7.2f aZ %7.2f gR %7.2f gP %7.2f gY %7.2f "+
				"mX %7.2f mY %7.2f mZ %7.2f T %6.2f P %7.2f H %6.2f "+
				"prox %3d lR %4d lG %4d lB %4d peak %5d\n",
			fr.Accel.X, fr.Accel.Y, fr.Accel.Z,
			fr.Gyro.Roll, fr.Gyro.Pitch, fr.Gyro.Yaw,
			fr.Mag.X/microteslaPerGauss, fr.Mag.Y/microteslaPerGauss, fr.Mag.Z/microteslaPerGauss,
			fr.TemperatureC, fr.PressureKPa*mmHgPerKPa, fr.Humidity,
			fr.Proximity,
			fr.Light.R/lightDivisor, fr.Light.G/lightDivisor, fr.Light.B/lightDivisor,
			fr.Peak,
		)
		return
	}
	fmt.Fprintf(f.w,
		"%7.2f %7.2f %7.2f %7.2f %7.2f %7.2f %7.2f %7.2f %7.2f "+
			"%6.2f %7.2f %6.2f %3d %4d %4d %4d %5d\n",
		fr.Accel.X, fr.Accel.Y, fr.Accel.Z,
		fr.Gyro.Roll, fr.Gyro.Pitch, fr.Gyro.Yaw,
		fr.Mag.X/microteslaPerGauss, fr.Mag.Y/microteslaPerGauss, fr.Mag.Z/microteslaPerGauss,
		fr.TemperatureC, fr.PressureKPa*mmHgPerKPa, fr.Humidity,
		fr.Proximity,
		fr.Light.R/lightDivisor, fr.Light.G/lightDivisor, fr.Light.B/lightDivisor,
		fr.Peak,
	)
}
