package clip

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"vizbeat/logging"
	"vizbeat/render"
)

// BufferWriter collects frames in memory. Intended for tests and for
// callers that post-process frames themselves.
type BufferWriter struct {
	Frames []*render.Canvas
}

func (b *BufferWriter) WriteFrame(index int, frame *render.Canvas) error {
	b.Frames = append(b.Frames, frame)
	return nil
}

// RawWriter streams packed RGB24 frames to an io.Writer.
type RawWriter struct {
	W io.Writer
}

func (r *RawWriter) WriteFrame(index int, frame *render.Canvas) error {
	if _, err := r.W.Write(frame.Pix); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", index, err)
	}
	return nil
}

// EncoderConfig holds FFmpeg muxing settings.
type EncoderConfig struct {
	FFmpegPath string  `json:"ffmpeg_path"`
	VideoCodec string  `json:"video_codec"`
	AudioCodec string  `json:"audio_codec"`
	Preset     string  `json:"preset"`
	FPS        float64 `json:"fps"`
}

// DefaultEncoderConfig returns H.264/AAC settings matching the
// reference deployment.
func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		FFmpegPath: "ffmpeg",
		VideoCodec: "libx264",
		AudioCodec: "aac",
		Preset:     "medium",
		FPS:        DefaultFrameRate,
	}
}

// FFmpegWriter pipes raw frames into an ffmpeg process that muxes them
// with the audio track into the output container.
type FFmpegWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger logging.Logger
}

// NewFFmpegWriter starts ffmpeg reading rawvideo RGB24 from stdin and
// the audio track from audioPath, writing an encoded file to
// outputPath. audioPath may be empty for a silent render.
func NewFFmpegWriter(config *EncoderConfig, width, height int, audioPath, outputPath string) (*FFmpegWriter, error) {
	if config == nil {
		config = DefaultEncoderConfig()
	}
	if config.FPS <= 0 {
		config.FPS = DefaultFrameRate
	}

	logger := logging.WithFields(logging.Fields{
		"component": "ffmpeg_writer",
		"output":    outputPath,
	})

	args := []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(config.FPS, 'f', -1, 64),
		"-i", "pipe:0",
	}
	if audioPath != "" {
		args = append(args, "-i", audioPath, "-c:a", config.AudioCodec, "-shortest")
	}
	args = append(args,
		"-c:v", config.VideoCodec,
		"-preset", config.Preset,
		"-pix_fmt", "yuv420p",
		outputPath,
	)

	cmd := exec.Command(config.FFmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}

	logger.Debug("starting ffmpeg", logging.Fields{"args": args})
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return &FFmpegWriter{cmd: cmd, stdin: stdin, logger: logger}, nil
}

func (f *FFmpegWriter) WriteFrame(index int, frame *render.Canvas) error {
	if _, err := f.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("ffmpeg rejected frame %d: %w", index, err)
	}
	return nil
}

// Close finishes the stream and waits for ffmpeg to exit.
func (f *FFmpegWriter) Close() error {
	if err := f.stdin.Close(); err != nil {
		f.logger.Warn("failed to close ffmpeg stdin", logging.Fields{"error": err})
	}
	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	f.logger.Debug("ffmpeg finished")
	return nil
}
