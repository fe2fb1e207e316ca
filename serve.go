package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/config"
	"github.com/nstehr/helm/dispatch"
	"github.com/nstehr/helm/ipc"
	"github.com/nstehr/helm/library"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
	"github.com/nstehr/helm/trace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Pilot ships for an external simulator over a unix socket",
	Long:  "Each simulator connection gets its own world and agents. The world steps whenever the simulator reports state.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// hub tracks live sessions so a reloaded tree reaches every world. Leaves
// close over their session's library, so each world rebuilds the document
// against its own registry.
type hub struct {
	profile library.Profile
	tracer  dispatch.TracerFactory

	mu       sync.Mutex
	doc      config.TreeDocument
	sessions map[*dispatch.World]*priority.Registry[*agent.Agent]
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fmt.Println(banner)
	slog.Info("starting helm", "socket", cfg.SocketPath, "profile", cfg.Profile.Name)

	probe := library.New(cfg.Profile, nil, nil)
	tree, err := loadTree(cfg.TreeFile, probe.Registry())
	if err != nil {
		return err
	}
	h := &hub{
		profile:  cfg.Profile,
		doc:      tree.Doc,
		sessions: make(map[*dispatch.World]*priority.Registry[*agent.Agent]),
	}
	if cfg.TraceDir != "" {
		tw := trace.NewWriter(cfg.TraceDir, cfg.TracePrefix)
		defer tw.Close()
		h.tracer = tw.For
		slog.Info("decision trace enabled", "dir", cfg.TraceDir)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.SocketPath, err)
	}
	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.SocketPath, err)
	}
	defer os.Remove(cfg.SocketPath)
	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Watch {
		w, err := config.NewWatcher(cfg.TreeFile, probe.Registry(), h.swap)
		if err != nil {
			listener.Close()
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})
	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
			slog.Info("new connection accepted")
			g.Go(func() error {
				h.serve(ctx, conn)
				return nil
			})
		}
	})

	err = g.Wait()
	slog.Info("shutting down")
	return err
}

func (h *hub) serve(ctx context.Context, conn net.Conn) {
	var world *dispatch.World
	lib := library.New(h.profile, library.RangeScanner(func() []*model.Ship { return world.Ships() }), nil)
	world = dispatch.NewWorld(model.NewSimClock(0), dispatch.LibrarySpawner(lib, h.tracer))
	reg := lib.Registry()

	h.mu.Lock()
	doc := h.doc
	h.sessions[world] = reg
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.sessions, world)
		h.mu.Unlock()
	}()

	tree, err := config.BuildTree(doc, reg)
	if err != nil {
		slog.Error("session tree build failed", "error", err)
		conn.Close()
		return
	}
	world.SetTree(tree.Priorities)

	c := ipc.NewConnection(conn)
	dispatch.NewBridge(world, c).Register(c)
	if err := c.Serve(ctx); err != nil {
		slog.Warn("session ended", "error", err)
	}
}

// swap rebuilds a reloaded tree for every session and hands it to the
// session's stepping goroutine.
func (h *hub) swap(tree config.Tree) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = tree.Doc
	for world, reg := range h.sessions {
		t, err := config.BuildTree(tree.Doc, reg)
		if err != nil {
			slog.Error("tree rebuild failed for session", "error", err)
			continue
		}
		world.Post(func(w *dispatch.World) { w.SetTree(t.Priorities) })
	}
	slog.Info("tree swapped", "name", tree.Name, "sessions", len(h.sessions))
}
