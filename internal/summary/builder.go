package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/pulse/internal/metrics"
)

// ErrTotalOverflow reports app durations whose sum is not a finite number.
var ErrTotalOverflow = errors.New("total app duration overflows float64")

// ParseError is returned when the raw input or a persisted summary is missing
// or is not valid JSON of the expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Builder reads a raw usage export, derives the summary metrics and writes the
// result to OutputPath, replacing whatever was there.
type Builder struct {
	OutputPath string
	Now        func() time.Time

	log zerolog.Logger
}

// NewBuilder returns a Builder writing to outputPath, or DefaultOutputPath
// when outputPath is empty.
func NewBuilder(outputPath string, logger zerolog.Logger) *Builder {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	return &Builder{
		OutputPath: outputPath,
		Now:        time.Now,
		log:        logger,
	}
}

// Build parses rawPath, assembles a Summary and persists it. It returns the
// destination path. Nothing is written when parsing fails.
func (b *Builder) Build(rawPath string) (string, error) {
	raw, err := ReadRaw(rawPath)
	if err != nil {
		return "", err
	}

	s := b.Assemble(raw)
	if err := Write(b.OutputPath, s); err != nil {
		return "", err
	}

	b.log.Info().
		Str("input", rawPath).
		Str("output", b.OutputPath).
		Int("apps", len(s.Apps)).
		Float64("total_duration_sec", s.TotalDurationSec).
		Float64("entropy", s.Entropy).
		Msg("summary written")
	return b.OutputPath, nil
}

// Assemble derives a Summary from raw, stamping it with the builder's clock.
// Missing collections in raw are filled with their defaults in place.
func (b *Builder) Assemble(raw *RawInput) *Summary {
	raw.Normalize()
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return &Summary{
		Timestamp:          now().Local().Format(TimestampLayout),
		TotalDurationSec:   metrics.Total(raw.Apps),
		Pickups:            raw.Pickups,
		Entropy:            metrics.Entropy(raw.Apps),
		HourlyDistribution: raw.HourlyDistribution,
		Flow:               raw.Flow,
		Apps:               raw.Apps,
	}
}

// ReadRaw reads and decodes a raw usage export. A missing file, malformed
// JSON or app durations that sum past the float64 range yield a *ParseError.
func ReadRaw(path string) (*RawInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var raw RawInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if math.IsInf(metrics.Total(raw.Apps), 0) {
		return nil, &ParseError{Path: path, Err: ErrTotalOverflow}
	}
	return &raw, nil
}

// Write renders s as two-space indented JSON and replaces path with it,
// creating parent directories as needed. The file is written to a temp file
// in the same directory and renamed into place.
func Write(path string, s *Summary) (err error) {
	data, err := (&JSONRenderer{}).Render(s)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".latest-*.json.tmp")
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
