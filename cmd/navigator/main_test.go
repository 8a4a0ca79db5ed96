package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/terrain-routing/internal/config"
	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

func TestRouterLogsSearches(t *testing.T) {
	g := terrain.NewGrid("flat", 0, 20, 3, 3, 10, terrain.DefaultNoData)
	for i := range g.Values {
		g.Values[i] = 10
	}
	m, err := terrain.NewMap(g)
	require.NoError(t, err)

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "info", Format: "json", Output: &buf})
	settings := config.SearchConfig{Factor: 1, MaxSlope: 100, MaxDepth: 100}
	router := newRouter(m, settings, log)

	route, err := router.ComputeRoute(context.Background(), routing.Request{
		Origin:      search.Coord{Y: 0, X: 0},
		Destination: search.Coord{Y: 20, X: 20},
		Strategy:    "ucs",
	})
	require.NoError(t, err)
	require.True(t, route.Exists)
	assert.Contains(t, buf.String(), `"msg":"route found"`)
	assert.Contains(t, buf.String(), `"strategy":"ucs"`)
}
