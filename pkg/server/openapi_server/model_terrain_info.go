// SPDX-License-Identifier: MIT

package openapi_server

type Bound struct {
	MinY float64 `json:"minY"`
	MinX float64 `json:"minX"`
	MaxY float64 `json:"maxY"`
	MaxX float64 `json:"maxX"`
}

type SearchSettings struct {
	Factor   float64 `json:"factor"`
	MaxSlope float64 `json:"maxSlope"`
	MaxDepth int     `json:"maxDepth"`
}

type TerrainInfo struct {
	CellSize   float64        `json:"cellSize"`
	Rows       int            `json:"rows,omitempty"`
	Cols       int            `json:"cols,omitempty"`
	Bound      *Bound         `json:"bound,omitempty"`
	Projection string         `json:"projection"`
	Settings   SearchSettings `json:"settings"`
}

type StrategyInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type ErrorResult struct {
	Message string `json:"message"`
}
