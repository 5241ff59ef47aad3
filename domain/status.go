package domain

import (
	"context"
	"time"
)

// ServiceStatus is the payload of the status endpoint.
type ServiceStatus struct {
	Version   string      `json:"version"`
	Timestamp int64       `json:"timestamp"`
	Stats     StatusStats `json:"stats"`
}

type StatusStats struct {
	Tasks int64 `json:"tasks"`
	Notes int64 `json:"notes"`
}

// Counter reports how many rows each resource holds.
type Counter interface {
	CountTasks(ctx context.Context) (int64, error)
	CountNotes(ctx context.Context) (int64, error)
}

type StatusService struct {
	st      Counter
	version string
	now     func() time.Time
}

func NewStatusService(st Counter, version string) StatusService {
	return StatusService{st: st, version: version, now: time.Now}
}

func (s StatusService) Status(ctx context.Context) (Envelope, error) {
	tasks, err := s.st.CountTasks(ctx)
	if err != nil {
		return Envelope{}, err
	}
	notes, err := s.st.CountNotes(ctx)
	if err != nil {
		return Envelope{}, err
	}
	return Success(ServiceStatus{
		Version:   s.version,
		Timestamp: s.now().Unix(),
		Stats:     StatusStats{Tasks: tasks, Notes: notes},
	}), nil
}
