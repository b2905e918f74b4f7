package circuit

// Version constants for the circuit wire format and engine.
const (
	// FormatVersion is the circuit JSON format version.
	FormatVersion = "1"

	// EngineVersion is the simulator engine version.
	EngineVersion = "0.1.0"
)
