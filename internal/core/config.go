package core

// RuntimeConfig contains configuration passed to the driver at start-up.
// The platform uses it to size the screen and pace the simulation.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// Normalize fills zero or negative fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	def := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = def.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = def.ScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	return c
}
