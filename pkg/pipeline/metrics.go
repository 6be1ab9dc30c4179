package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Phase names of a run
const (
	PhaseExtract = "extract"
	PhaseClean   = "clean"
	PhaseLoad    = "load"
	PhaseVerify  = "verify"
)

// PhaseMetrics tracks one phase of a run
type PhaseMetrics struct {
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Rows      int           `json:"rows"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Duration returns the elapsed time of the phase
func (pm *PhaseMetrics) Duration() time.Duration {
	if pm.EndTime.IsZero() {
		return time.Since(pm.StartTime)
	}
	return pm.EndTime.Sub(pm.StartTime)
}

// Metrics tracks timings and volumes of a run
type Metrics struct {
	logger    *zap.Logger
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Phases    []*PhaseMetrics `json:"phases"`
}

// NewMetrics creates a new Metrics instance
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		logger:    logger,
		StartTime: time.Now(),
		Phases:    make([]*PhaseMetrics, 0, 4),
	}
}

// StartPhase begins tracking a phase
func (m *Metrics) StartPhase(name string) *PhaseMetrics {
	pm := &PhaseMetrics{Name: name, StartTime: time.Now()}
	m.Phases = append(m.Phases, pm)
	if m.logger != nil {
		m.logger.Debug("Started phase", zap.String("phase", name))
	}
	return pm
}

// EndPhase completes a phase with the number of rows it handled
func (m *Metrics) EndPhase(pm *PhaseMetrics, rows int) {
	pm.EndTime = time.Now()
	pm.Rows = rows
	pm.Elapsed = pm.EndTime.Sub(pm.StartTime)
	if m.logger != nil {
		m.logger.Info("Completed phase",
			zap.String("phase", pm.Name),
			zap.Int("rows", rows),
			zap.Duration("duration", pm.Elapsed))
	}
}

// Complete marks the run as finished
func (m *Metrics) Complete() {
	m.EndTime = time.Now()
}

// Duration returns the elapsed time of the run
func (m *Metrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Phase returns the metrics of a phase by name
func (m *Metrics) Phase(name string) (*PhaseMetrics, bool) {
	for _, pm := range m.Phases {
		if pm.Name == name {
			return pm, true
		}
	}
	return nil, false
}

// LoadThroughput returns loaded rows per second, 0 when nothing was loaded
func (m *Metrics) LoadThroughput() float64 {
	pm, ok := m.Phase(PhaseLoad)
	if !ok || pm.Rows == 0 {
		return 0
	}
	secs := pm.Duration().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(pm.Rows) / secs
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// GenerateMetricsReport renders the metrics as text
func (m *Metrics) GenerateMetricsReport() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run duration: %s\n", formatDuration(m.Duration())))
	for _, pm := range m.Phases {
		sb.WriteString(fmt.Sprintf("  %-8s %8d rows  %s\n", pm.Name, pm.Rows, formatDuration(pm.Duration())))
	}
	if tp := m.LoadThroughput(); tp > 0 {
		sb.WriteString(fmt.Sprintf("Load throughput: %.1f rows/s\n", tp))
	}
	return sb.String()
}

// ToJSON serializes the metrics
func (m *Metrics) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
