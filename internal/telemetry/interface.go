package telemetry

// Sample is one observation taken from the console.
type Sample struct {
	// Elapsed is whole seconds since the start of collection.
	Elapsed int
	// CPU and RSX are degrees Celsius.
	CPU int
	RSX int
	// Fan is the fan duty in percent, as reported.
	Fan int
}

