package astro

import "math"

// AirmassSentinel is returned when the object is at or below the horizon.
const AirmassSentinel = 38.0

// Airmass computes the relative optical path length through the atmosphere
// for an object at the given altitude, using the Kasten & Young (1989)
// approximation. Altitude 90° gives 1.0; at or below the horizon the
// sentinel is returned.
func Airmass(altDeg float64) float64 {
	z := math.Max(0, 90-altDeg)
	if z >= 90 {
		return AirmassSentinel
	}
	return 1 / (math.Cos(z*math.Pi/180) + 0.50572*math.Pow(96.07995-z, -1.6364))
}
