package vocab

import "time"

// Code identifies a supported language, e.g. "ml".
type Code string

// Language is one entry in the public language list.
type Language struct {
	Code Code   `json:"code"`
	Name string `json:"name"`
}

// Submission is a crowd-sourced correction waiting for the offline learner.
type Submission struct {
	Word     string
	Lang     Code
	SourceIP string
}

// ExportRow is one learned word published by the export feed.
type ExportRow struct {
	Word       string
	Confidence float64
	Lang       Code
	LearnedOn  time.Time
}

// DateLayout is the calendar-day layout used by the export filter.
const DateLayout = "2006-01-02"
