package harmonyclient

import (
	"strings"
	"time"
)

// JobStatus enumerates the states a job moves through.
type JobStatus string

const (
	StatusAccepted           JobStatus = "accepted"
	StatusRunning            JobStatus = "running"
	StatusRunningWithErrors  JobStatus = "running_with_errors"
	StatusSuccessful         JobStatus = "successful"
	StatusFailed             JobStatus = "failed"
	StatusCanceled           JobStatus = "canceled"
	StatusPaused             JobStatus = "paused"
	StatusPreviewing         JobStatus = "previewing"
	StatusCompleteWithErrors JobStatus = "complete_with_errors"
)

// Terminal reports whether the status is final: the job will make no
// further progress.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusCanceled, StatusCompleteWithErrors:
		return true
	}
	return false
}

// Succeeded reports whether a terminal status produced usable output.
func (s JobStatus) Succeeded() bool {
	return s == StatusSuccessful || s == StatusCompleteWithErrors
}

// LinkTemporal is the temporal extent attached to a result link.
type LinkTemporal struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Link is a hypermedia link in a job document.
type Link struct {
	Href     string        `json:"href"`
	Title    string        `json:"title,omitempty"`
	Type     string        `json:"type,omitempty"`
	Rel      string        `json:"rel"`
	BBox     []float64     `json:"bbox,omitempty"`
	Temporal *LinkTemporal `json:"temporal,omitempty"`
}

// JobError is a per-granule failure recorded on a job that ran with
// errors.
type JobError struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Job is the service's handle for a processing task.
type Job struct {
	JobID            string     `json:"jobID"`
	Username         string     `json:"username,omitempty"`
	Status           JobStatus  `json:"status"`
	Message          string     `json:"message,omitempty"`
	Progress         int        `json:"progress"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DataExpiration   *time.Time `json:"dataExpiration,omitempty"`
	Request          string     `json:"request,omitempty"`
	NumInputGranules int        `json:"numInputGranules,omitempty"`
	Links            []Link     `json:"links,omitempty"`
	Errors           []JobError `json:"errors,omitempty"`
	Labels           []string   `json:"labels,omitempty"`
}

// LinksByRel returns the job's links with the given rel.
func (j *Job) LinksByRel(rel string) []Link {
	var out []Link
	for _, link := range j.Links {
		if strings.EqualFold(link.Rel, rel) {
			out = append(out, link)
		}
	}
	return out
}

// DataLinks returns the job's result links.
func (j *Job) DataLinks() []Link {
	return j.LinksByRel("data")
}

// NextLink returns the rel="next" pagination link, or nil.
func (j *Job) NextLink() *Link {
	for i := range j.Links {
		if strings.EqualFold(j.Links[i].Rel, "next") {
			return &j.Links[i]
		}
	}
	return nil
}

// JobList is one page of a job listing.
type JobList struct {
	Count int    `json:"count"`
	Jobs  []*Job `json:"jobs"`
	Links []Link `json:"links,omitempty"`
}

// NextLink returns the listing's rel="next" link, or nil.
func (l *JobList) NextLink() *Link {
	if l == nil {
		return nil
	}
	for i := range l.Links {
		if strings.EqualFold(l.Links[i].Rel, "next") {
			return &l.Links[i]
		}
	}
	return nil
}
