package mathx

import "golang.org/x/exp/constraints"

// MapInt re-maps x from [inMin,inMax] onto [outMin,outMax] using integer
// arithmetic. The input range may be inverted (inMin > inMax). The result is
// not clamped: inputs outside the range extrapolate along the same line.
// inMin == inMax returns outMin.
func MapInt[T constraints.Signed](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
