package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fractalvid/internal/config"
	"github.com/san-kum/fractalvid/internal/render"
	"github.com/san-kum/fractalvid/internal/trajectory"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{
	"index", "center_x", "center_y", "zoom", "exponent",
	"min", "max", "mean", "interior", "nonfinite", "elapsed_ms",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Output        string        `json:"output"`
	Seed          int64         `json:"seed"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	FrameRate     int           `json:"frame_rate"`
	NumFrames     int           `json:"num_frames"`
	Rendered      int           `json:"rendered"`
	Schedule      string        `json:"schedule"`
	Palette       string        `json:"palette"`
	MaxIterations int           `json:"max_iterations"`
	CutAmplitude  float64       `json:"cut_amplitude"`
	CutDecay      float64       `json:"cut_decay"`
	CutMultiplier float64       `json:"cut_multiplier"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	Complete      bool          `json:"complete"`
}

// NewMetadata describes a run of cfg that produced result.
func NewMetadata(cfg *config.Resolved, output string, result *render.Result) RunMetadata {
	return RunMetadata{
		Output:        output,
		Seed:          result.Seed,
		Width:         cfg.Width,
		Height:        cfg.Height,
		FrameRate:     cfg.FrameRate,
		NumFrames:     cfg.NumFrames,
		Rendered:      len(result.Frames),
		Schedule:      cfg.Schedule,
		Palette:       cfg.Palette,
		MaxIterations: cfg.MaxIterations,
		CutAmplitude:  cfg.Cuts.Amplitude,
		CutDecay:      cfg.Cuts.Decay,
		CutMultiplier: result.CutMultiplier,
		Elapsed:       result.Elapsed,
		Complete:      len(result.Frames) == cfg.NumFrames,
	}
}

// Save writes meta and the per-frame statistics under a new run id.
func (s *Store) Save(meta RunMetadata, frames []render.FrameStats) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Schedule, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, frames); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteFramesCSV writes a header and one row per frame.
func WriteFramesCSV(w io.Writer, frames []render.FrameStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(framesHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			formatFloat(f.Pose.CenterX),
			formatFloat(f.Pose.CenterY),
			formatFloat(f.Pose.Zoom),
			formatFloat(f.Pose.Exponent),
			formatFloat(f.Min),
			formatFloat(f.Max),
			formatFloat(f.Mean),
			strconv.Itoa(f.Interior),
			strconv.Itoa(f.NonFinite),
			formatFloat(float64(f.Elapsed.Microseconds()) / 1000),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads back the per-frame statistics of a run.
func (s *Store) LoadFrames(runID string) ([]render.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []render.FrameStats{}, nil
	}

	frames := make([]render.FrameStats, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s row %d: %w", framesFile, i+1, err)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseFrame(record []string) (render.FrameStats, error) {
	if len(record) != len(framesHeader) {
		return render.FrameStats{}, fmt.Errorf("expected %d fields, got %d", len(framesHeader), len(record))
	}

	floats := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return render.FrameStats{}, err
		}
		floats[j] = v
	}

	return render.FrameStats{
		Index: int(floats[0]),
		Pose: trajectory.CameraState{
			CenterX:  floats[1],
			CenterY:  floats[2],
			Zoom:     floats[3],
			Exponent: floats[4],
		},
		Min:       floats[5],
		Max:       floats[6],
		Mean:      floats[7],
		Interior:  int(floats[8]),
		NonFinite: int(floats[9]),
		Elapsed:   time.Duration(floats[10] * float64(time.Millisecond)),
	}, nil
}
