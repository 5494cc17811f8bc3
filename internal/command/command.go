package command

// DriverCommand is one named output channel update. Value is interpreted on
// the [Min, Max] range and mapped to the channel's pulse range by the driver.
type DriverCommand struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

type CommandDriverIFace interface {
	Init() error
	Set(DriverCommand) error
	SetMany([]DriverCommand) error
	Stop() error
}

func MapToRange(value, min, max, minReturn, maxReturn float64) float64 {
	mappedValue := (maxReturn-minReturn)*(value-min)/(max-min) + minReturn

	if mappedValue > maxReturn {
		return maxReturn
	} else if mappedValue < minReturn {
		return minReturn
	} else {
		return mappedValue
	}
}
