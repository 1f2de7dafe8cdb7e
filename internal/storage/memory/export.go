// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/radarview/overlay/internal/geo"
	"github.com/radarview/overlay/pkg/core"
)

// SessionExport is the root JSON structure
type SessionExport struct {
	SessionID   string             `json:"sessionId"`
	SessionName string             `json:"sessionName"`
	HostName    string             `json:"hostName"`
	WidgetName  string             `json:"widgetName"`
	Tag         string             `json:"tag"`
	StartTime   time.Time          `json:"startTime"`
	EndTime     time.Time          `json:"endTime"`
	Duration    float64            `json:"duration"`
	CycleCount  int                `json:"cycleCount"`
	SelfTrail   string             `json:"selfTrail"` // [[lon,lat],...] of self fixes
	Cycles      []core.CycleRecord `json:"cycles"`
}

// exportJSON writes the session data to a JSON file
func (b *Backend) exportJSON() error {
	export, err := b.buildExport()
	if err != nil {
		return err
	}

	// Build filename
	sessionName := strings.ReplaceAll(b.session.SessionName, " ", "_")
	sessionName = strings.ReplaceAll(sessionName, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", sessionName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", sessionName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() (SessionExport, error) {
	export := SessionExport{
		SessionID:   b.session.SessionID,
		SessionName: b.session.SessionName,
		HostName:    b.session.HostName,
		WidgetName:  b.session.WidgetName,
		Tag:         b.session.Tag,
		StartTime:   b.session.StartTime,
		EndTime:     b.endTime,
		Duration:    b.endTime.Sub(b.session.StartTime).Seconds(),
		CycleCount:  len(b.cycles),
		Cycles:      b.cycles,
	}
	if export.Cycles == nil {
		export.Cycles = make([]core.CycleRecord, 0)
	}

	// Self fixes across cycles form a trail, deduplicated on
	// consecutive identical positions.
	trail := make([]core.Coordinate, 0, len(b.cycles))
	for _, cycle := range b.cycles {
		if n := len(trail); n > 0 && trail[n-1] == cycle.Self {
			continue
		}
		trail = append(trail, cycle.Self)
	}

	encoded, err := geo.EncodeTrail(trail)
	if err != nil {
		return export, fmt.Errorf("failed to encode self trail: %w", err)
	}
	export.SelfTrail = encoded

	return export, nil
}

func (b *Backend) writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
