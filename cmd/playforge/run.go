package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/inspect"
	"github.com/vovakirdan/playforge/internal/session"
)

var (
	flagRunFrames  int
	flagInspect    string
	flagOrigins    []string
	flagPublishHz  int
	flagMaxClients int
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene headless",
	Long: `Run a scene without a terminal UI.

With --frames and no --inspect the scene is stepped as fast as possible on
a fixed 60 Hz clock and the final state is printed. With --inspect the
scene runs in real time and an HTTP server exposes:

  /healthz   - liveness and current scene
  /metrics   - Prometheus metrics
  /snapshot  - latest world, camera and game state as JSON
  /scenes    - registered scenes
  /ws        - WebSocket stream of snapshots

Examples:
  playforge run meadow --frames 600
  playforge run canyon --inspect 127.0.0.1:7070
  playforge run --genre shooter --inspect :7070 --origin http://localhost:5173`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&flagRunFrames, "frames", 0, "Stop after this many frames (0 = until interrupted)")
	runCmd.Flags().StringVar(&flagInspect, "inspect", "", "Serve the inspect API on this address")
	runCmd.Flags().StringSliceVar(&flagOrigins, "origin", nil, "Allowed CORS origins for browser viewers")
	runCmd.Flags().IntVar(&flagPublishHz, "publish-hz", 10, "Snapshots published per second")
	runCmd.Flags().IntVar(&flagMaxClients, "max-clients", 32, "Maximum WebSocket clients")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger("playforge")

	opts, err := sessionOptions(args)
	if err != nil {
		fail("%v", err)
	}
	opts.Logger = logger

	var srv *inspect.Server
	if flagInspect != "" {
		srv = inspect.NewServer(inspect.Config{
			Addr:           flagInspect,
			AllowedOrigins: flagOrigins,
			MaxClients:     flagMaxClients,
			RateLimit:      inspect.DefaultRateLimitConfig,
		}, inspect.WithLogger(logger))
		opts.Observers = append(opts.Observers, srv.ObserveFrame)
	}

	sess, err := session.Open(opts)
	if err != nil {
		fail("%v", err)
	}
	defer sess.Close()

	if srv == nil {
		if flagRunFrames <= 0 {
			fail("--frames is required without --inspect")
		}
		sess.Start()
		sess.SkipIntro()
		sess.Run(flagRunFrames)
		printSummary(sess)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(ctx)
	}()

	if err := realtime(ctx, sess, srv, logger); err != nil {
		logger.Error("run stopped", "error", err)
	}
	stop()
	if err := <-serveErr; err != nil {
		logger.Error("inspect server", "error", err)
		printSummary(sess)
		os.Exit(1)
	}
	printSummary(sess)
}

// realtime advances sess on a wall-clock ticker and publishes snapshots
// until ctx ends or the frame limit is reached.
func realtime(ctx context.Context, sess *session.Session, srv *inspect.Server, logger *log.Logger) error {
	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	publishEvery := 1
	if flagPublishHz > 0 && flagPublishHz < fps {
		publishEvery = fps / flagPublishHz
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	sess.Start()
	start := time.Now()
	logger.Info("running", "scene", sess.SceneID(), "fps", fps)

	for frames := 1; ; frames++ {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			sess.Advance(t.Sub(start))
		}
		if frames%publishEvery == 0 {
			if err := srv.Publish(sess.Snapshot()); err != nil {
				return err
			}
		}
		if flagRunFrames > 0 && frames >= flagRunFrames {
			return nil
		}
	}
}

func printSummary(sess *session.Session) {
	st := sess.Engine.State()
	fmt.Printf("%s (%s)\n", sess.Title(), sess.Config.Mechanics.Type)
	fmt.Printf("  status        %s\n", sess.Engine.Status())
	fmt.Printf("  time          %s\n", st.Time.Round(time.Millisecond))
	fmt.Printf("  score         %d\n", st.Score)
	fmt.Printf("  collectibles  %d\n", st.Collectibles)
	fmt.Printf("  player        (%.1f, %.1f)\n", st.PlayerPosition.X, st.PlayerPosition.Y)
	fmt.Printf("  game over     %t\n", st.IsGameOver)
}
