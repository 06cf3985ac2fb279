package repdetect

// Config holds the tunable parameters for repetition detection.
type Config struct {
	// Buffer
	Capacity  int // Max buffered frames (~2-4s at 15-30Hz)
	MinFrames int // Don't signal completion below this many frames

	// Excursion
	ExcursionPx float64 // Min vertical wrist travel across the buffer

	// Peak placement: the excursion peak must fall inside the middle
	// fraction of the buffer, not at either edge.
	PeakWindow float64

	// Baseline
	BaselineFrames    int     // Frames averaged at each end of the buffer
	BaselineTolerance float64 // Max px gap between leading and trailing means
}

// DefaultConfig returns the recommended detection parameters.
func DefaultConfig() Config {
	return Config{
		Capacity:          60, // ~2-4s of pose frames
		MinFrames:         20,
		ExcursionPx:       80,
		PeakWindow:        0.6, // middle 60%
		BaselineFrames:    10,
		BaselineTolerance: 60,
	}
}

// StrictConfig requires a larger, cleaner movement before signaling.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.MinFrames = 30
	cfg.ExcursionPx = 120
	cfg.BaselineTolerance = 40
	return cfg
}
