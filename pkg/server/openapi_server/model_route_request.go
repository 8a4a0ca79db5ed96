// SPDX-License-Identifier: MIT

package openapi_server

type RouteRequest struct {
	Origin      *Point `json:"origin"`
	Destination *Point `json:"destination"`
	Strategy    string `json:"strategy,omitempty"`
}

// AssertRouteRequestRequired checks if the required fields are present.
// A point at (0, 0) is a valid position, only a missing point is rejected.
func AssertRouteRequestRequired(obj RouteRequest) error {
	elements := map[string]interface{}{
		"origin":      obj.Origin,
		"destination": obj.Destination,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	return nil
}

type CompareRequest struct {
	Origin      *Point `json:"origin"`
	Destination *Point `json:"destination"`
}

// AssertCompareRequestRequired checks if the required fields are present
func AssertCompareRequestRequired(obj CompareRequest) error {
	return AssertRouteRequestRequired(RouteRequest{Origin: obj.Origin, Destination: obj.Destination})
}
