package terrain

import (
	"fmt"
	"strings"
)

// Aggregation combines the cells of a block when a map gets resized
type Aggregation int

const (
	Mean Aggregation = iota
	Max
	Min
)

func (a Aggregation) String() string {
	switch a {
	case Mean:
		return "mean"
	case Max:
		return "max"
	case Min:
		return "min"
	}
	return "INVALID"
}

func ParseAggregation(name string) (Aggregation, error) {
	switch strings.ToLower(name) {
	case "mean", "":
		return Mean, nil
	case "max":
		return Max, nil
	case "min":
		return Min, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAggFunc, name)
}

// Apply aggregates a non-empty set of values
func (a Aggregation) Apply(values []float64) float64 {
	switch a {
	case Max:
		result := values[0]
		for _, v := range values[1:] {
			result = max(result, v)
		}
		return result
	case Min:
		result := values[0]
		for _, v := range values[1:] {
			result = min(result, v)
		}
		return result
	default:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}
