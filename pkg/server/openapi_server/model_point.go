// SPDX-License-Identifier: MIT

package openapi_server

import "github.com/natevvv/terrain-routing/pkg/search"

// Point is a planar terrain position (northing, easting for UTM terrain)
type Point struct {
	Y float64 `json:"y"`
	X float64 `json:"x"`
}

func (p Point) coord() search.Coord { return search.Coord{Y: p.Y, X: p.X} }

func pointOf(c search.Coord) Point { return Point{Y: c.Y, X: c.X} }
