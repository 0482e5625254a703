package core

// RuntimeConfig contains host settings passed to a preview at start.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the host loop (default 60)
	Seed     int64 // RNG seed for camera shake; 0 means use current time in the platform layer

	// CellW and CellH give the size of one terminal cell in world pixels.
	CellW float64
	CellH float64
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
		CellW:    10,
		CellH:    20,
	}
}
