package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playforge/internal/export"
	"github.com/vovakirdan/playforge/internal/session"
	"github.com/vovakirdan/playforge/internal/storage"
)

var (
	flagExportFrames int
	flagExportOut    string
	flagExportPNG    string
	flagExportWidth  int
	flagExportHeight int
	flagExportSave   bool
	flagExportIntro  bool
)

var exportCmd = &cobra.Command{
	Use:   "export [scene]",
	Short: "Export a scene snapshot as JSON and PNG",
	Long: `Run a scene for a number of frames on a fixed 60 Hz clock, then write
its world, camera and game state as JSON. The JSON goes to stdout unless
--out is given. --png also renders a thumbnail through the camera.

Examples:
  playforge export meadow
  playforge export canyon --frames 120 --out canyon.json --png canyon.png
  playforge export crates --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

func init() {
	addSceneFlags(exportCmd)
	exportCmd.Flags().IntVar(&flagExportFrames, "frames", 60, "Frames to simulate before the snapshot")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "JSON output path (default stdout)")
	exportCmd.Flags().StringVar(&flagExportPNG, "png", "", "Also write a PNG thumbnail to this path")
	exportCmd.Flags().IntVar(&flagExportWidth, "width", 320, "Thumbnail width in pixels")
	exportCmd.Flags().IntVar(&flagExportHeight, "height", 240, "Thumbnail height in pixels")
	exportCmd.Flags().BoolVar(&flagExportSave, "save", false, "Store the snapshot in the scores database")
	exportCmd.Flags().BoolVar(&flagExportIntro, "intro", false, "Keep the intro cinematic running")
}

func runExport(cmd *cobra.Command, args []string) {
	opts, err := sessionOptions(args)
	if err != nil {
		fail("%v", err)
	}
	opts.Logger = newLogger("playforge")

	sess, err := session.Open(opts)
	if err != nil {
		fail("%v", err)
	}
	defer sess.Close()

	sess.Start()
	if !flagExportIntro {
		sess.SkipIntro()
	}
	sess.Run(flagExportFrames)
	snap := sess.Snapshot()

	if flagExportOut == "" {
		if err := export.WriteJSON(os.Stdout, snap); err != nil {
			fail("%v", err)
		}
	} else {
		if err := export.SaveJSON(flagExportOut, snap); err != nil {
			fail("%v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", flagExportOut)
	}

	if flagExportPNG != "" {
		if err := export.SavePNG(flagExportPNG, snap, flagExportWidth, flagExportHeight); err != nil {
			fail("%v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", flagExportPNG)
	}

	if flagExportSave {
		data, err := export.Marshal(snap)
		if err != nil {
			fail("%v", err)
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail("opening scores database: %v", err)
		}
		defer store.Close()
		id, err := store.SaveSnapshot(snap.Scene, flagExportFrames, data)
		if err != nil {
			fail("saving snapshot: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Saved snapshot #%d\n", id)
	}
}
