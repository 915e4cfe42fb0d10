package oligocraft

var (
	// Version of oligocraft.
	Version = "v0.1.0"

	// Build timestamp.
	Build = "n/a"
)
