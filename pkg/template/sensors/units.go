package sensors

// UnitInfo returns the display symbol and long name of a temperature unit
// code. Unrecognised codes are treated as Celsius.
func UnitInfo(code string) (symbol string, longName string) {
	switch code {
	case "F":
		return "°F", "Fahrenheit"
	case "K":
		return "K", "Kelvin"
	case "R":
		return "°R", "Rankine"
	default:
		return "°C", "Celsius"
	}
}
