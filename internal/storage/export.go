package storage

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/fractalvid/internal/render"
	"github.com/san-kum/fractalvid/internal/trajectory"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []FrameRecord `json:"frames"`
}

// FrameRecord is the JSON form of render.FrameStats. Statistics of frames
// without finite pixels are null.
type FrameRecord struct {
	Index     int                    `json:"index"`
	Pose      trajectory.CameraState `json:"pose"`
	Min       *float64               `json:"min"`
	Max       *float64               `json:"max"`
	Mean      *float64               `json:"mean"`
	Interior  int                    `json:"interior"`
	NonFinite int                    `json:"nonfinite"`
	ElapsedMs float64                `json:"elapsed_ms"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func NewFrameRecord(f render.FrameStats) FrameRecord {
	return FrameRecord{
		Index:     f.Index,
		Pose:      f.Pose,
		Min:       finite(f.Min),
		Max:       finite(f.Max),
		Mean:      finite(f.Mean),
		Interior:  f.Interior,
		NonFinite: f.NonFinite,
		ElapsedMs: float64(f.Elapsed.Microseconds()) / 1000,
	}
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []render.FrameStats) error {
	data := ExportData{Run: meta, Frames: make([]FrameRecord, len(frames))}
	for i, f := range frames {
		data.Frames[i] = NewFrameRecord(f)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, frames []render.FrameStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, meta, frames); err != nil {
		return err
	}
	return file.Close()
}

func ExportCSVFile(path string, frames []render.FrameStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteFramesCSV(file, frames); err != nil {
		return err
	}
	return file.Close()
}
