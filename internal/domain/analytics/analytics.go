// Package analytics aggregates platform-wide counts for the admin dashboard.
package analytics

import "context"

// Summary is the admin dashboard payload.
type Summary struct {
	TotalEvents        int64            `json:"totalEvents"`
	ApprovedEvents     int64            `json:"approvedEvents"`
	PendingEvents      int64            `json:"pendingEvents"`
	RejectedEvents     int64            `json:"rejectedEvents"`
	TotalUsers         int64            `json:"totalUsers"`
	TotalStudents      int64            `json:"totalStudents"`
	TotalClubs         int64            `json:"totalClubs"`
	TotalRegistrations int64            `json:"totalRegistrations"`
	TotalCheckIns      int64            `json:"totalCheckIns"`
	EventsByCategory   map[string]int64 `json:"eventsByCategory"`
	EventsByClub       map[string]int64 `json:"eventsByClub"`
}

type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}
