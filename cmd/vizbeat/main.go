package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"vizbeat/analysis"
	"vizbeat/clip"
	"vizbeat/logging"
	"vizbeat/lyrics"
	"vizbeat/render"
	"vizbeat/timeline"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	if envLevel := os.Getenv("VIZBEAT_LOG_LEVEL"); envLevel == "debug" {
		logging.SetLevel(logging.DebugLevel)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.Error(err, "command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vizbeat analyze -in song.mp3 -out analysis.json [-lrc song.lrc]")
	fmt.Fprintln(os.Stderr, "       vizbeat render -analysis analysis.json -out video.mp4 [-audio song.mp3] [flags]")
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	in := fs.String("in", "", "input MP3 file")
	out := fs.String("out", "analysis.json", "output analysis JSON")
	lrc := fs.String("lrc", "", "optional .lrc lyric file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("analyze: -in is required")
	}

	pcm, sampleRate, err := analysis.DecodeMP3File(*in)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(nil)
	tl, err := analyzer.Analyze(pcm, sampleRate)
	if err != nil {
		return err
	}

	if *lrc != "" {
		segments, err := lyrics.ParseLRCFile(*lrc, tl.Duration)
		if err != nil {
			logging.Warn("continuing without lyrics", logging.Fields{"error": err.Error()})
		} else {
			tl.Lyrics = segments
			tl.Emotion = lyrics.Summary(segments)
		}
	}

	segmenter := timeline.NewSegmenter(nil)
	tl.Sections = segmenter.Segment(tl.Frames, tl.Lyrics, tl.Duration)

	if err := tl.Save(*out); err != nil {
		return err
	}
	logging.Info("analysis written", logging.Fields{
		"path":     *out,
		"duration": tl.Duration,
		"beats":    len(tl.Beats),
		"sections": len(tl.Sections),
	})
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	analysisPath := fs.String("analysis", "", "analysis JSON from the analyze command")
	out := fs.String("out", "out.mp4", "output video file")
	audio := fs.String("audio", "", "audio track to mux (silent video if empty)")
	mode := fs.String("mode", "geometric", "visual mode: geometric, particles, psychedelic")
	width := fs.Int("width", 1920, "output width")
	height := fs.Int("height", 1080, "output height")
	fps := fs.Float64("fps", envFloat("VIZBEAT_FPS", clip.DefaultFrameRate), "output frame rate")
	barCount := fs.Int("bars", render.DefaultStyle().BarCount, "frequency bar count")
	thickness := fs.Float64("thickness", render.DefaultStyle().LineThickness, "line thickness")
	glow := fs.Float64("glow", render.DefaultStyle().GlowStrength, "glow strength")
	seed := fs.Int64("seed", 1, "particle simulation seed")
	workers := fs.Int("workers", 0, "render workers (0 = all CPUs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *analysisPath == "" {
		return fmt.Errorf("render: -analysis is required")
	}

	tl, err := timeline.Load(*analysisPath)
	if err != nil {
		return err
	}
	if len(tl.Sections) == 0 {
		tl.Sections = timeline.NewSegmenter(nil).Segment(tl.Frames, tl.Lyrics, tl.Duration)
	}

	cfg := clip.DefaultJobConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.FPS = *fps
	cfg.ModeName = *mode
	cfg.Style.BarCount = *barCount
	cfg.Style.LineThickness = *thickness
	cfg.Style.GlowStrength = *glow
	cfg.Seed = *seed
	if *workers > 0 {
		cfg.Workers = *workers
	}

	// Dimensions may be bumped to even; the encoder must see the final
	// frame geometry.
	evenWidth := *width + *width%2
	evenHeight := *height + *height%2

	encoderCfg := clip.DefaultEncoderConfig()
	encoderCfg.FPS = cfg.FPS
	if path := os.Getenv("VIZBEAT_FFMPEG"); path != "" {
		encoderCfg.FFmpegPath = path
	}

	writer, err := clip.NewFFmpegWriter(encoderCfg, evenWidth, evenHeight, *audio, *out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assembler := clip.NewAssembler()
	renderErr := assembler.Render(ctx, tl, cfg, writer)
	if closeErr := writer.Close(); renderErr == nil {
		renderErr = closeErr
	}
	if renderErr != nil {
		return renderErr
	}

	logging.Info("video written", logging.Fields{"path": *out})
	return nil
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
