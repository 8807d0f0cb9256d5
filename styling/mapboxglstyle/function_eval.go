package mapboxglstyle

import (
	"math"

	"github.com/jamesrr39/goutil/algorithms"
)

// EvalContext is the input to a property function: the current zoom, and (for data-driven functions) the feature being styled
type EvalContext struct {
	Zoom    float64
	Feature FeatureContext
}

func ZoomContext(zoom float64) EvalContext {
	return EvalContext{Zoom: zoom}
}

// Evaluate resolves the function to a concrete value. It never panics: a missing property, an unmatched
// category or a NaN zoom all resolve to the function's default, or a clamped stop output.
func (f *Function[T]) Evaluate(ctx EvalContext) T {
	if f.isRaw {
		return f.raw
	}

	definition := f.interpolated

	var input Value
	if definition.Property == "" {
		input = NumberValue(ctx.Zoom)
	} else {
		if ctx.Feature == nil {
			return f.defaultValue()
		}
		propertyValue, ok := ctx.Feature.Property(definition.Property)
		if !ok {
			return f.defaultValue()
		}
		input = propertyValue
	}

	if f.functionType == FunctionTypeIdentity {
		output, ok := f.codec.FromValue(input)
		if !ok {
			return f.defaultValue()
		}
		return output
	}

	if len(f.zoomGroups) > 0 {
		return f.evaluateComposite(ctx.Zoom, input)
	}

	output, ok := f.evaluateStops(definition.Stops, input)
	if !ok {
		return f.defaultValue()
	}
	return output
}

func (f *Function[T]) defaultValue() T {
	if f.interpolated != nil && f.interpolated.Default != nil {
		return *f.interpolated.Default
	}
	return f.fallback
}

func (f *Function[T]) evaluateStops(stops []FunctionStop[T], input Value) (T, bool) {
	var zero T
	if len(stops) == 0 {
		return zero, false
	}

	if f.functionType == FunctionTypeCategorical {
		for _, stop := range stops {
			if stop.Input.Equal(input) {
				return stop.Output, true
			}
		}
		return zero, false
	}

	x, ok := input.AsNumber()
	if !ok {
		return zero, false
	}

	return f.interpolateStops(stops, x), true
}

func (f *Function[T]) interpolateStops(stops []FunctionStop[T], x float64) T {
	lastIndex := len(stops) - 1

	if math.IsNaN(x) || x <= stopKey(stops[0]) {
		return stops[0].Output
	}
	if x >= stopKey(stops[lastIndex]) {
		return stops[lastIndex].Output
	}

	lower, exact := bracketStops(stops, x)
	if exact || f.functionType == FunctionTypeInterval || f.codec.Interpolate == nil {
		return stops[lower].Output
	}

	upper := lower + 1
	t := interpolationFactor(x, stopKey(stops[lower]), stopKey(stops[upper]), f.interpolated.Base)

	return f.blend(stops[lower].Output, stops[upper].Output, t)
}

// evaluateComposite evaluates the property stops at the zoom levels either side of zoom, then blends those two results by zoom
func (f *Function[T]) evaluateComposite(zoom float64, input Value) T {
	groups := f.zoomGroups
	lastIndex := len(groups) - 1

	evaluateGroup := func(i int) (T, bool) {
		return f.evaluateStops(groups[i].stops, input)
	}

	var lower int
	switch {
	case math.IsNaN(zoom) || zoom <= groups[0].zoom:
		lower = 0
	case zoom >= groups[lastIndex].zoom:
		lower = lastIndex
	default:
		for i := 0; i < lastIndex; i++ {
			if zoom >= groups[i].zoom && zoom < groups[i+1].zoom {
				lower = i
				break
			}
		}
	}

	lowerOutput, ok := evaluateGroup(lower)
	if !ok {
		return f.defaultValue()
	}

	isBetweenZoomLevels := lower < lastIndex && zoom > groups[lower].zoom
	if !isBetweenZoomLevels || f.functionType == FunctionTypeInterval || f.codec.Interpolate == nil {
		return lowerOutput
	}

	upperOutput, ok := evaluateGroup(lower + 1)
	if !ok {
		return f.defaultValue()
	}

	t := interpolationFactor(zoom, groups[lower].zoom, groups[lower+1].zoom, f.interpolated.Base)

	return f.blend(lowerOutput, upperOutput, t)
}

func (f *Function[T]) blend(from, to T, t float64) T {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	return f.codec.Interpolate(from, to, t, f.interpolated.ColorSpace)
}

// bracketStops returns the index of the stop at or immediately below x, and whether x hit that stop exactly.
// x must lie strictly within the first and last stops.
func bracketStops[T any](stops []FunctionStop[T], x float64) (int, bool) {
	i, result := algorithms.BinarySearch(len(stops), func(i int) algorithms.SearchResult {
		key := stopKey(stops[i])
		switch {
		case x < key:
			return algorithms.SearchResultGoLower
		case x > key:
			return algorithms.SearchResultGoHigher
		default:
			return algorithms.SearchResultFound
		}
	})

	switch result {
	case algorithms.SearchResultFound:
		return i, true
	case algorithms.SearchResultGoLower:
		return i - 1, false
	default:
		return i, false
	}
}

// interpolationFactor is the 0-1 progress of x between lower and upper.
// With a base other than 1 progress follows an exponential curve, so values change faster towards the upper stop.
func interpolationFactor(x, lower, upper float64, base *float64) float64 {
	difference := upper - lower
	if difference == 0 {
		return 0
	}
	progress := x - lower

	if base == nil || *base == 1 {
		return progress / difference
	}

	t := (math.Pow(*base, progress) - 1) / (math.Pow(*base, difference) - 1)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return progress / difference
	}
	return t
}
