package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nstehr/helm/config"
	"github.com/nstehr/helm/dispatch"
	"github.com/nstehr/helm/library"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/trace"
)

// flagHunter marks ships that go after fugitives in the default tree.
const flagHunter = "helm_flag_hunter"

var (
	simTree     string
	simShips    int
	simDuration time.Duration
	simWatch    bool
	simTraceDir string
	simSeed     uint64
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a local demo system with library pilots",
	Long: `Populates a star system around a main station with traders, police and
fugitives, then steps it in real time until the duration runs out.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&simTree, "tree", "", "Priority tree YAML (default: built-in tree)")
	simCmd.Flags().IntVar(&simShips, "ships", 6, "Number of ships besides the station")
	simCmd.Flags().DurationVar(&simDuration, "duration", 30*time.Second, "How long to run")
	simCmd.Flags().BoolVar(&simWatch, "watch", false, "Reload the tree file when it changes")
	simCmd.Flags().StringVar(&simTraceDir, "trace-dir", "", "Write a compressed decision trace here")
	simCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Random seed (0 picks one)")
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if simTree != "" {
		cfg.TreeFile = simTree
	}
	if simWatch {
		cfg.Watch = true
	}
	if simTraceDir != "" {
		cfg.TraceDir = simTraceDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Profile.Waypoints == "" {
		cfg.Profile.Waypoints = "stationPatrol"
	}
	if simSeed == 0 {
		simSeed = rand.Uint64()
	}
	fmt.Println(banner)
	slog.Info("starting simulation", "ships", simShips, "duration", simDuration, "seed", simSeed)

	var tracer dispatch.TracerFactory
	if cfg.TraceDir != "" {
		tw := trace.NewWriter(cfg.TraceDir, cfg.TracePrefix)
		defer tw.Close()
		tracer = tw.For
	}

	var world *dispatch.World
	rng := rand.New(rand.NewPCG(simSeed, simSeed^0x9e3779b97f4a7c15))
	lib := library.New(cfg.Profile, library.RangeScanner(func() []*model.Ship { return world.Ships() }), rng)
	world = dispatch.NewWorld(model.NewSimClock(0), dispatch.LibrarySpawner(lib, tracer))
	world.Physics = dispatch.Kinematics
	reg := lib.Registry()

	tree, err := loadTree(cfg.TreeFile, reg)
	if err != nil {
		return err
	}
	world.SetTree(tree.Priorities)
	if err := populate(world, simShips, rng); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, simDuration)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	runner := dispatch.NewRunner(world, cfg.TickSeconds, time.Duration(cfg.TickIntervalMS)*time.Millisecond)
	g.Go(func() error { return runner.Run(ctx) })

	if cfg.Watch {
		w, err := config.NewWatcher(cfg.TreeFile, reg, func(t config.Tree) {
			world.Post(func(w *dispatch.World) { w.SetTree(t.Priorities) })
		})
		if err != nil {
			cancel()
			return errors.Join(err, g.Wait())
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	report(world, runner.Steps())
	return nil
}

// populate builds the system around a main station and launches n ships
// near it: every third a police hunter, every fourth a fugitive, the rest
// traders.
func populate(w *dispatch.World, n int, rng *rand.Rand) error {
	station := model.NewShip(1, "Coriolis", model.ClassStation)
	station.Position = model.Vector{Z: 380000}
	station.Forward = model.Vector{Z: -1}
	station.MaxSpeed = 0
	station.Energy, station.MaxEnergy = 1000, 1000
	w.SetSystem(&model.System{
		MainStation:  station,
		Planet:       model.Vector{Z: 400000},
		PlanetRadius: 5000,
		Sun:          model.Vector{X: 700000, Z: 400000},
		SunRadius:    100000,
	})
	if _, err := w.Add(station); err != nil {
		return err
	}

	scatter := func() model.Vector {
		return station.Position.Add(model.Vector{
			X: (rng.Float64() - 0.5) * 40000,
			Y: (rng.Float64() - 0.5) * 40000,
			Z: (rng.Float64() - 0.5) * 40000,
		})
	}
	for i := range n {
		id := i + 2
		var s *model.Ship
		hunter := false
		switch {
		case id%3 == 0:
			s = model.NewShip(id, fmt.Sprintf("Viper-%d", id), model.ClassShip)
			s.PrimaryRole = "police"
			s.MaxSpeed = 320
			hunter = true
		case id%4 == 0:
			s = model.NewShip(id, fmt.Sprintf("Krait-%d", id), model.ClassShip)
			s.PrimaryRole = "pirate"
			s.Bounty = 100
		default:
			s = model.NewShip(id, fmt.Sprintf("Cobra-%d", id), model.ClassShip)
			s.PrimaryRole = "trader"
			s.MaxSpeed = 350
		}
		s.Position = scatter()
		a, err := w.Add(s)
		if err != nil {
			return err
		}
		if hunter {
			a.SetParameter(flagHunter, true)
		}
	}
	return nil
}

func report(w *dispatch.World, steps int) {
	slog.Info("simulation finished", "steps", steps, "time", w.Clock().Now())
	for _, s := range w.Ships() {
		behaviour := ""
		if a, ok := w.Agent(s.ID); ok {
			behaviour = a.Behaviour()
		}
		slog.Info("ship",
			"ship", s.String(),
			"behaviour", behaviour,
			"order", s.Order,
			"energy", fmt.Sprintf("%.0f/%.0f", s.Energy, s.MaxEnergy),
			"messages", len(s.Messages),
		)
	}
}
