package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/metrics"
)

type Report struct {
	Meta    Meta          `json:"meta"`
	Entries []Entry       `json:"entries"`
	Summary []TaskSummary `json:"summary"`
}

type Meta struct {
	Version     string          `json:"version"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// Entry is the outcome of one evaluation job. Payload is nil when the job failed.
type Entry struct {
	Name        string                `json:"name"`
	Task        string                `json:"task"`
	Round       int                   `json:"round"`
	Participant string                `json:"participant,omitempty"`
	Payload     *metrics.ScorePayload `json:"payload,omitempty"`
	Elapsed     time.Duration         `json:"elapsed"`
	Error       string                `json:"error,omitempty"`
}

func (e Entry) Failed() bool {
	return e.Payload == nil || e.Error != ""
}

// TaskSummary averages the successful entries of one task.
type TaskSummary struct {
	Task       string        `json:"task"`
	JobCount   int           `json:"job_count"`
	ErrorCount int           `json:"error_count"`
	Precision  float64       `json:"mean_precision"`
	Recall     float64       `json:"mean_recall"`
	F1         float64       `json:"mean_f1"`
	Elapsed    time.Duration `json:"total_elapsed"`
}
