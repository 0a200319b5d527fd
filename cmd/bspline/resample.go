package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"
	"github.com/tphakala/go-bspline"
	"github.com/tphakala/go-bspline/internal/engine"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Float constraint for generic resampling.
type Float interface {
	float32 | float64
}

// resampleOptions holds flags of the resample command.
type resampleOptions struct {
	order    int
	rateKHz  float64
	parallel bool
	fast     bool
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	inputSamples  int64
	outputSamples int64
}

func newResampleCmd() *cobra.Command {
	opts := &resampleOptions{}

	cmd := &cobra.Command{
		Use:   "resample [flags] input.wav output.wav",
		Short: "Resample a PCM WAV file with a B-spline kernel",
		Long: `resample converts a 16, 24 or 32-bit PCM WAV file to a new sample rate.
Each channel runs through its own streaming B-spline stage; with --parallel
the channels of every chunk are processed concurrently.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(cmd.Context(), cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVarP(&opts.order, "order", "n", bspline.DefaultOrder, "B-spline order")
	cmd.Flags().Float64Var(&opts.rateKHz, "rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 44.1, 48, 96)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", true, "Process channels concurrently")
	cmd.Flags().BoolVar(&opts.fast, "fast", false, "Use float32 precision")

	return cmd
}

func runResample(ctx context.Context, w io.Writer, opts *resampleOptions, inputPath, outputPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	targetRate := int(opts.rateKHz * kHzToHz)

	logger.Info("Resampling",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("target_rate", targetRate),
		zap.Int("order", opts.order),
		zap.Bool("parallel", opts.parallel),
		zap.Bool("float32", opts.fast))

	start := time.Now()
	var (
		stats *resampleStats
		err   error
	)
	if opts.fast {
		stats, err = resampleWAV[float32](ctx, inputPath, outputPath, targetRate, opts)
	} else {
		stats, err = resampleWAV[float64](ctx, inputPath, outputPath, targetRate, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(w, "Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Fprintf(w, "  %d Hz -> %d Hz (%d channels, %d-bit, order %d)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, opts.order)
	fmt.Fprintf(w, "  %d samples -> %d samples\n", stats.inputSamples, stats.outputSamples)
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "  Duration: %.2fs, Speed: %.1fx realtime\n",
			secs, float64(stats.inputSamples)/float64(stats.inputRate)/secs)
	}
	return nil
}

// wavInput holds validated input file information.
type wavInput struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a PCM WAV file.
func openWAVInput(path string) (*wavInput, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if fullScale(bitDepth) == 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d (want 16, 24 or 32)", bitDepth)
	}

	var totalSamples int64
	if duration, err := decoder.Duration(); err == nil {
		totalSamples = int64(duration.Seconds() * float64(format.SampleRate))
	}

	logger.Debug("Input format",
		zap.Int("rate", format.SampleRate),
		zap.Int("channels", format.NumChannels),
		zap.Int("bit_depth", bitDepth))

	return &wavInput{
		file:         inputFile,
		decoder:      decoder,
		rate:         format.SampleRate,
		channels:     format.NumChannels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput wraps the output file and its encoder.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutput, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutput{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved samples.
func (w *wavOutput) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return w.file.Close()
}

// createChannelStages creates one B-spline stage per channel.
func createChannelStages[F Float](numChannels, order int, ratio float64) ([]*engine.BSplineStage[F], error) {
	stages := make([]*engine.BSplineStage[F], numChannels)
	for ch := range numChannels {
		s, err := engine.NewBSplineStage[F](order, ratio)
		if err != nil {
			return nil, fmt.Errorf("failed to create stage for channel %d: %w", ch, err)
		}
		stages[ch] = s
	}
	return stages, nil
}

// resampleChannels runs fn on every channel, concurrently when parallel is
// set and there is more than one channel.
func resampleChannels[F Float](
	ctx context.Context,
	stages []*engine.BSplineStage[F],
	parallel bool,
	fn func(ch int, s *engine.BSplineStage[F]) ([]F, error),
) ([][]F, error) {
	out := make([][]F, len(stages))

	if !parallel || len(stages) <= 1 {
		for ch, s := range stages {
			y, err := fn(ch, s)
			if err != nil {
				return nil, fmt.Errorf("resampling failed on channel %d: %w", ch, err)
			}
			out[ch] = y
		}
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for ch, s := range stages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			y, err := fn(ch, s)
			if err != nil {
				return fmt.Errorf("resampling failed on channel %d: %w", ch, err)
			}
			out[ch] = y
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// padChannels extends every channel to the longest one with zeros and
// returns that length.
func padChannels[F Float](channels [][]F) int {
	frames := 0
	for _, c := range channels {
		frames = max(frames, len(c))
	}
	for i, c := range channels {
		if len(c) < frames {
			padded := make([]F, frames)
			copy(padded, c)
			channels[i] = padded
		}
	}
	return frames
}

func resampleWAV[F Float](ctx context.Context, inputPath, outputPath string, targetRate int, opts *resampleOptions) (stats *resampleStats, err error) {
	input, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	config := bspline.ResamplerConfig{
		InputRate:  float64(input.rate),
		OutputRate: float64(targetRate),
		Channels:   input.channels,
		Order:      opts.order,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	stages, err := createChannelStages[F](input.channels, opts.order, config.OutputRate/config.InputRate)
	if err != nil {
		return nil, err
	}
	logger.Debug("Created stages",
		zap.Int("channels", len(stages)),
		zap.Int("latency", stages[0].GetLatency()),
		zap.Int("filter_length", stages[0].GetFilterLength()),
		zap.String("simd", stages[0].GetSIMDInfo()))

	output, err := createWAVOutput(outputPath, targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// The header sizes are only written on Close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	scale := fullScale(input.bitDepth)
	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*input.channels),
		Format: input.format,
	}
	channelBufs := make([][]F, input.channels)
	for ch := range channelBufs {
		channelBufs[ch] = make([]F, bufferSize)
	}
	var outBuf []int

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalSamples)

	for {
		intBuffer.Data = intBuffer.Data[:cap(intBuffer.Data)]
		n, err := input.decoder.PCMBuffer(intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(intBuffer.Data[:frames*input.channels], channelBufs, input.channels, frames, 1/scale)
		stats.inputSamples += int64(frames)

		resampled, err := resampleChannels(ctx, stages, opts.parallel,
			func(ch int, s *engine.BSplineStage[F]) ([]F, error) {
				return s.Process(channelBufs[ch][:frames])
			})
		if err != nil {
			return nil, err
		}

		outFrames := padChannels(resampled)
		outBuf = interleaveInto(resampled, outBuf, scale)
		stats.outputSamples += int64(outFrames)
		if err := output.WriteSamples(outBuf); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		progress.reportIfNeeded(stats.inputSamples)
	}

	flushed, err := resampleChannels(ctx, stages, opts.parallel,
		func(_ int, s *engine.BSplineStage[F]) ([]F, error) {
			return s.Flush()
		})
	if err != nil {
		return nil, err
	}
	outFrames := padChannels(flushed)
	outBuf = interleaveInto(flushed, outBuf, scale)
	stats.outputSamples += int64(outFrames)
	if err := output.WriteSamples(outBuf); err != nil {
		return nil, fmt.Errorf("failed to write flushed data: %w", err)
	}

	return stats, nil
}

// progressTracker logs progress every progressInterval percent.
type progressTracker struct {
	totalSamples int64
	lastProgress int
}

func newProgressTracker(totalSamples int64) *progressTracker {
	return &progressTracker{totalSamples: totalSamples}
}

// reportIfNeeded logs progress if a threshold was crossed and returns the
// current percentage.
func (p *progressTracker) reportIfNeeded(currentSamples int64) int {
	if p.totalSamples == 0 {
		return 0
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		logger.Debug("Progress", zap.Int("percent", progress))
		p.lastProgress = progress
	}
	return progress
}

// fullScale returns the largest sample value for a PCM bit depth, or 0 if
// the depth is unsupported.
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return 0
	}
}

// deinterleaveInto converts interleaved int samples into per-channel float
// buffers scaled to [-1, 1].
func deinterleaveInto[F Float](data []int, channelBufs [][]F, numChannels, frames int, invMaxVal float64) {
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = F(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts equal-length channels to clamped int samples,
// reusing dst's storage.
func interleaveInto[F Float](channels [][]F, dst []int, maxVal float64) []int {
	if len(channels) == 0 {
		return dst[:0]
	}

	numChannels := len(channels)
	total := len(channels[0]) * numChannels
	if cap(dst) < total {
		dst = make([]int, total)
	}
	dst = dst[:total]

	for ch, samples := range channels {
		for i, v := range samples {
			sample := min(max(float64(v), -1), 1)
			dst[i*numChannels+ch] = int(sample * maxVal)
		}
	}
	return dst
}
