package core

// RuntimeConfig contains host parameters passed to a session at start.
// The simulation itself is timestamp driven; TickRate only sets how often the
// platform delivers frames.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Display frames per second (default 60)
	Seed     int64 // RNG seed for reproducible spawns
}
