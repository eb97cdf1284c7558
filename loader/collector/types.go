package collector

const (
	timestepElement = "timestep"
	vehicleElement  = "vehicle"
)

// recordMarker starts every vehicle sample, it is what the pre-pass counts.
var recordMarker = []byte("<" + vehicleElement)
