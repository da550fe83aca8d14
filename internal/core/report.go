package core

import (
	"github.com/agenthands/genepath/internal/core/export"
	"github.com/agenthands/genepath/internal/core/model"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Stages a pipeline run can end in.
const (
	StageInputError = "input_error"
	StageEmpty      = "empty"
	StageComplete   = "complete"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Request is one user action. Nil Threshold falls back to the pipeline
// default and nil ShowLabels means true.
type Request struct {
	// ID becomes the report ID when set.
	ID            string   `json:"-" form:"-"`
	Genes         string   `json:"genes" form:"genes"`
	Threshold     *float64 `json:"threshold" form:"threshold" binding:"omitempty,gte=0,lte=1"`
	ShowLabels    *bool    `json:"show_labels" form:"show_labels"`
	ColorByModule bool     `json:"color_by_module" form:"color_by_module"`
	SkipSummary   bool     `json:"skip_summary" form:"skip_summary"`
	Seed          *int64   `json:"seed" form:"seed"`
}

func (r Request) thresholdOr(fallback float64) float64 {
	if r.Threshold == nil {
		return fallback
	}
	return *r.Threshold
}

func (r Request) showLabels() bool {
	return r.ShowLabels == nil || *r.ShowLabels
}

type Report struct {
	ID           string              `json:"id"`
	Stage        string              `json:"stage"`
	Genes        []string            `json:"genes"`
	Threshold    float64             `json:"threshold"`
	Interactions []model.Interaction `json:"interactions"`
	Table        []export.Row        `json:"table"`
	Modules      []model.Module      `json:"modules"`
	Network      string              `json:"network_html,omitempty"`
	Summary      string              `json:"summary,omitempty"`
	CSV          []byte              `json:"-"`
	Notices      []Notice            `json:"notices"`
	Cached       bool                `json:"cached"`
}

func (r *Report) addNotice(level NoticeLevel, message string) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: message})
}

// HasErrors reports whether any notice is an error.
func (r *Report) HasErrors() bool {
	for _, n := range r.Notices {
		if n.Level == NoticeError {
			return true
		}
	}
	return false
}
