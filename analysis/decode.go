package analysis

import (
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"

	"vizbeat/logging"
)

// DecodeMP3 decodes an MP3 stream into mono float64 PCM in -1..1 and
// returns the sample rate. The decoder emits 16-bit little-endian
// stereo; channels are averaged down to mono.
func DecodeMP3(r io.Reader) ([]float64, int, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode failed: %w", err)
	}

	var pcm []float64
	buf := make([]byte, 8192)
	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			// Frames are 4 bytes: left int16, right int16.
			for i := 0; i+3 < n; i += 4 {
				left := int16(buf[i]) | int16(buf[i+1])<<8
				right := int16(buf[i+2]) | int16(buf[i+3])<<8
				pcm = append(pcm, (float64(left)+float64(right))/2/32768.0)
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("mp3 read failed: %w", err)
		}
	}

	if len(pcm) == 0 {
		return nil, 0, fmt.Errorf("mp3 stream contains no samples")
	}

	return pcm, decoder.SampleRate(), nil
}

// DecodeMP3File decodes an MP3 file from disk.
func DecodeMP3File(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	logging.Debug("decoding audio file", logging.Fields{
		"component": "analyzer",
		"path":      path,
	})
	return DecodeMP3(f)
}
