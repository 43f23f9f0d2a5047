package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AnalysisStatus is the lifecycle state of one evidence file's AI analysis.
type AnalysisStatus string

const (
	StatusNotStarted AnalysisStatus = "Not Started"
	StatusPending    AnalysisStatus = "Pending Analysis"
	StatusAnalyzing  AnalysisStatus = "Analyzing"
	StatusCompleted  AnalysisStatus = "Completed"
	StatusFailed     AnalysisStatus = "Failed"
)

// Valid reports whether s is one of the known statuses.
func (s AnalysisStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusPending, StatusAnalyzing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition happens for the current submission.
func (s AnalysisStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// EvidenceFile is one uploaded artifact tracked through the analysis lifecycle.
//
// ContentRef is the key of the raw bytes in the content store. An empty ContentRef
// means the raw content is not available any more.
type EvidenceFile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Size           int64           `json:"size"`
	ContentRef     string          `json:"content_ref,omitempty"`
	UploadedAt     time.Time       `json:"uploaded_at"`
	Status         AnalysisStatus  `json:"status"`
	AnalysisResult *AnalysisResult `json:"analysis_result,omitempty"`
}

// SizeMB is the size in mebibytes, the unit used for pricing and display.
func (e EvidenceFile) SizeMB() float64 {
	return float64(e.Size) / 1024 / 1024
}

// Clone returns a copy that does not share the analysis result.
func (e EvidenceFile) Clone() EvidenceFile {
	out := e
	if e.AnalysisResult != nil {
		r := e.AnalysisResult.Clone()
		out.AnalysisResult = &r
	}
	return out
}

// WithStatus returns a copy moved to status s. Any result is dropped.
func (e EvidenceFile) WithStatus(s AnalysisStatus) EvidenceFile {
	out := e.Clone()
	out.Status = s
	out.AnalysisResult = nil
	return out
}

// WithResult returns a completed copy carrying r.
func (e EvidenceFile) WithResult(r AnalysisResult) EvidenceFile {
	out := e.Clone()
	out.Status = StatusCompleted
	out.AnalysisResult = &r
	return out
}

// Validate checks the status/result invariant.
func (e EvidenceFile) Validate() error {
	if !e.Status.Valid() {
		return fmt.Errorf("evidence %s: unknown status %q", e.ID, e.Status)
	}
	if (e.Status == StatusCompleted) != (e.AnalysisResult != nil) {
		return fmt.Errorf("evidence %s: status %q inconsistent with analysis result", e.ID, e.Status)
	}
	return nil
}

// DetectedObject is an object found in an image or video.
type DetectedObject struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

// Entity is a person, location, organization etc. found in the evidence.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Location   string  `json:"location,omitempty"`
}

// AnalysisResult is the structured extraction output for one evidence file.
type AnalysisResult struct {
	FileID        string           `json:"fileId"`
	Summary       string           `json:"summary"`
	Objects       []DetectedObject `json:"objects,omitempty"`
	Entities      []Entity         `json:"entities,omitempty"`
	OCRText       string           `json:"ocrText,omitempty"`
	Transcription string           `json:"transcription,omitempty"`
}

// Clone returns a deep copy.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	if r.Objects != nil {
		out.Objects = append([]DetectedObject(nil), r.Objects...)
	}
	if r.Entities != nil {
		out.Entities = append([]Entity(nil), r.Entities...)
	}
	return out
}

// SearchText is the flat lowercase form of the whole result used for keyword matching.
// HTML characters stay literal so keywords like "at&t" can match.
func (r AnalysisResult) SearchText() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return strings.ToLower(r.Summary)
	}
	return strings.ToLower(strings.TrimSuffix(buf.String(), "\n"))
}
