package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/natevvv/terrain-routing/internal/config"
	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/pkg/routing"
	"github.com/natevvv/terrain-routing/pkg/search"
	"github.com/natevvv/terrain-routing/pkg/slice"
	"github.com/natevvv/terrain-routing/pkg/terrain"
)

// strategies whose routes must match the reference length
var optimal = []string{"bfs", "ucs", "astar-euclidean", "astar-manhattan"}

// origin, destination, reference length (-1 without route) and #hops (nodes from source to target)
type target struct {
	origin      search.Coord
	destination search.Coord
	length      float64
	hops        int
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults when empty)")
	useRandomTargets := flag.Bool("random", false, "Create (new) random targets")
	amountTargets := flag.Int("n", 10, "How many new targets should get created")
	storeTargets := flag.Bool("store", false, "Store targets (when newly generated)")
	targetFile := flag.String("targets", "", "Target file (configured initial and goal when empty)")
	algorithm := flag.String("search", "all", "Select the search strategy, or all")
	cpuProfile := flag.String("cpu", "", "write cpu profile to file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	strategies := make([]string, 0)
	if *algorithm == "all" {
		for _, info := range routing.Strategies() {
			strategies = append(strategies, info.Name)
		}
	} else {
		s, err := search.ParseStrategy(*algorithm, search.Coord{})
		if err != nil {
			log.Fatal(err)
		}
		strategies = append(strategies, s.Name())
	}

	start := time.Now()
	m, err := cfg.Terrain.Open(ctx, logging.Noop())
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)

	settings := routing.Settings{Factor: cfg.Search.Factor, MaxSlope: cfg.Search.MaxSlope, MaxDepth: cfg.Search.MaxDepth}
	router := routing.NewRouter(m, settings)

	var targets []target
	switch {
	case *useRandomTargets:
		targets = createTargets(ctx, *amountTargets, router, m)
		if *storeTargets && *targetFile != "" {
			writeTargets(targets, *targetFile)
		}
	case *targetFile != "":
		targets = readTargets(*targetFile)
		if *amountTargets < len(targets) {
			targets = targets[0:*amountTargets]
		}
	default:
		targets = []target{reference(ctx, router, cfg.Search.Initial.Coord(), cfg.Search.Goal.Coord())}
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	for _, strategy := range strategies {
		benchmark(ctx, router, strategy, targets)
	}
}

// reference computes the expected result of a target with uniform cost search
func reference(ctx context.Context, router *routing.Router, origin, destination search.Coord) target {
	route, err := router.ComputeRoute(ctx, routing.Request{Origin: origin, Destination: destination, Strategy: "ucs"})
	if err != nil {
		log.Fatal(err)
	}
	if !route.Exists {
		return target{origin: origin, destination: destination, length: -1}
	}
	return target{origin: origin, destination: destination, length: route.Length, hops: len(route.Steps)}
}

func readTargets(filename string) []target {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)

	targets := make([]target, 0)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}
		var t target
		fmt.Sscanf(line, "%g %g %g %g %g %d", &t.origin.Y, &t.origin.X, &t.destination.Y, &t.destination.X, &t.length, &t.hops)
		targets = append(targets, t)
	}
	return targets
}

// createTargets picks random origins on cells with data and destinations a
// whole number of steps away, so the destination lies on the search lattice.
func createTargets(ctx context.Context, n int, router *routing.Router, m *terrain.Map) []target {
	targets := make([]target, 0, n)
	seed := rand.NewSource(time.Now().UnixNano())
	rng := rand.New(seed)

	step := m.CellSize() * router.Settings().Factor
	bound := m.Bound()
	rows := int(math.Floor((bound.Max.Y() - bound.Min.Y()) / step))
	cols := int(math.Floor((bound.Max.X() - bound.Min.X()) / step))
	if rows < 1 || cols < 1 {
		log.Fatal("terrain is smaller than one step")
	}
	at := func(row, col int) search.Coord {
		return search.Coord{Y: bound.Max.Y() - (float64(row)+0.5)*step, X: bound.Min.X() + (float64(col)+0.5)*step}
	}
	valid := func(c search.Coord) bool { return m.ElevationAt(c.Y, c.X) != m.NoData() }

	for attempts := 0; len(targets) < n && attempts < 1000*n; attempts++ {
		origin := at(rng.Intn(rows), rng.Intn(cols))
		destination := at(rng.Intn(rows), rng.Intn(cols))
		if !valid(origin) || !valid(destination) {
			continue
		}
		targets = append(targets, reference(ctx, router, origin, destination))
	}
	return targets
}

func writeTargets(targets []target, targetFile string) {
	var sb strings.Builder
	sb.WriteString("# origin y, origin x, destination y, destination x, length, hops\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%v %v %v %v %v %v\n", t.origin.Y, t.origin.X, t.destination.Y, t.destination.X, t.length, t.hops))
	}

	file, cErr := os.Create(targetFile)

	if cErr != nil {
		log.Fatal(cErr)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writer.WriteString(sb.String())
	writer.Flush()
}

// Run the strategy on all targets and compare with the reference results
func benchmark(ctx context.Context, router *routing.Router, strategy string, targets []target) {
	var runtime time.Duration = 0
	completed := 0

	pops := 0
	expansions := 0
	generated := 0
	duplicates := 0
	peakFrontier := 0

	invalidResults := make([]int, 0)
	invalidLengths := make([]int, 0)
	lengthRatio := 0.0
	found := 0

	mustBeOptimal := slice.Contains(optimal, strategy)

	showResults := func() {
		fmt.Printf("== %s ==\n", strategy)
		if completed == 0 {
			fmt.Println("No targets completed")
			return
		}
		fmt.Printf("Average runtime: %.3fms\n", float64(int(runtime.Nanoseconds())/completed)/1000000)
		fmt.Printf("Average pq pops: %d\n", pops/completed)
		fmt.Printf("Average expansions: %d\n", expansions/completed)
		fmt.Printf("Average generated nodes: %d\n", generated/completed)
		fmt.Printf("Average duplicates: %d\n", duplicates/completed)
		fmt.Printf("Peak frontier: %d\n", peakFrontier)
		if found > 0 {
			fmt.Printf("Average length ratio to reference: %.3f\n", lengthRatio/float64(found))
		}

		fmt.Printf("%v/%v invalid Result (route exists/reference).\n", len(invalidResults), completed)
		for i, result := range invalidResults {
			fmt.Printf("%v: Case %v (%v -> %v) has invalid result\n", i, result, targets[result].origin, targets[result].destination)
		}

		if mustBeOptimal {
			fmt.Printf("%v/%v invalid path lengths.\n", len(invalidLengths), completed)
			for i, testcase := range invalidLengths {
				fmt.Printf("%v: Case %v (%v -> %v) has invalid length. Reference: %v\n", i, testcase, targets[testcase].origin, targets[testcase].destination, targets[testcase].length)
			}
		}
	}

	// catch interrupt to still show already calculated results
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-c; ok {
			showResults()
			os.Exit(0)
		}
	}()

	for i, t := range targets {
		route, err := router.ComputeRoute(ctx, routing.Request{Origin: t.origin, Destination: t.destination, Strategy: strategy})
		if err != nil {
			log.Fatal(err)
		}
		stats := route.Stats

		fmt.Printf("[%3v TIME-Navigate, PQ Pops, Expansions, Generated, Length, Hops] = %12s, %7d, %7d, %7d, %10.1f, %5d\n", i, route.Elapsed, stats.Pops, stats.Expansions, stats.Generated, route.Length, len(route.Steps))

		pops += stats.Pops
		expansions += stats.Expansions
		generated += stats.Generated
		duplicates += stats.Duplicates
		peakFrontier = max(peakFrontier, stats.PeakFrontier)

		if route.Exists != (t.length >= 0) {
			invalidResults = append(invalidResults, i)
		} else if route.Exists {
			found++
			if t.length > 0 {
				lengthRatio += route.Length / t.length
			} else {
				lengthRatio++
			}
			if math.Abs(route.Length-t.length) > 1e-6 {
				invalidLengths = append(invalidLengths, i)
			}
		}

		runtime += route.Elapsed
		completed++
	}
	// normal termination, show results
	showResults()
	signal.Stop(c)
	close(c)
}
