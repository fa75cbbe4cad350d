package propagation

// BulgeAt returns how far the curved Earth line of sight drops below the
// straight chord at distanceAlongFt on a path of totalLengthFt.
//
// The parabolic approximation is zero at both ends and peaks at the midpoint.
func (m *Model) BulgeAt(distanceAlongFt, totalLengthFt float64) float64 {
	if totalLengthFt <= 0 {
		return 0
	}
	return distanceAlongFt * (totalLengthFt - distanceAlongFt) / (2 * m.EffectiveRadiusFt())
}

// Bulge is BulgeAt for a true geometric Earth with the given radius.
func Bulge(distanceAlongFt, totalLengthFt, earthRadiusFt float64) float64 {
	if totalLengthFt <= 0 || earthRadiusFt <= 0 {
		return 0
	}
	return distanceAlongFt * (totalLengthFt - distanceAlongFt) / (2 * earthRadiusFt)
}
