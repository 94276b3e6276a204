package testframes

// Config describes a synthetic session.
type Config struct {
	Frames         int     // number of frames
	StartMS        float64 // timestamp of the first frame
	IntervalMS     float64 // nominal frame interval
	TimingJitterMS float64 // stddev of interval noise

	Amplitude float64 // peak arm rotation in radians
	Period    int     // frames per motion cycle
	Noise     float64 // stddev of per-sample rotation noise

	OutputLag int     // frames the output trails the input
	Smoothing float64 // exponential smoothing on the output, in [0,1)
	Leak      float64 // share of upper-arm Y motion leaking into Z

	Dropout  float64 // probability a frame lacks output rotations
	ZeroRate float64 // probability an arm value is the zero sentinel

	Landmarks      bool    // emit raw pose landmarks
	LandmarkTravel float64 // peak-to-peak wrist travel in image units

	Seed int64
}

// Default configuration constants.
const (
	defaultFrames         = 120
	defaultStartMS        = 1000
	defaultIntervalMS     = 33
	defaultAmplitude      = 1.2
	defaultPeriod         = 60
	defaultLandmarkTravel = 0.35
	defaultSeed           = 42
	poseLandmarkCount     = 33
)

// DefaultConfig returns a clean, well-tracked session.
func DefaultConfig() Config {
	return Config{
		Frames:         defaultFrames,
		StartMS:        defaultStartMS,
		IntervalMS:     defaultIntervalMS,
		Amplitude:      defaultAmplitude,
		Period:         defaultPeriod,
		Landmarks:      true,
		LandmarkTravel: defaultLandmarkTravel,
		Seed:           defaultSeed,
	}
}
