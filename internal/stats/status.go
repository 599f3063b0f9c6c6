package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/riot"
)

type StatusLevel string

const (
	StatusOnline   StatusLevel = "online"
	StatusDegraded StatusLevel = "degraded"
	StatusOffline  StatusLevel = "offline"
	StatusUnknown  StatusLevel = "unknown"
)

// PlatformStatus is the health of one region. Level is unknown when the
// status endpoint could not be read; Err then holds the reason.
type PlatformStatus struct {
	Region       string
	RegionName   string
	Level        StatusLevel
	Incidents    []riot.StatusEvent
	Maintenances []riot.StatusEvent
	CheckedAt    time.Time
	Err          error
}

// Status never fails; problems surface as StatusUnknown.
func (s *Service) Status(ctx context.Context, region string) PlatformStatus {
	st := PlatformStatus{
		Region:     riot.Platform(region),
		RegionName: riot.RegionName(region),
		Level:      StatusUnknown,
		CheckedAt:  time.Now(),
	}
	data, err := s.client.PlatformStatus(ctx, region)
	if err != nil {
		s.log.Warn("status lookup failed", slog.String("region", st.Region), slog.Any("error", err))
		st.Err = err
		return st
	}
	st.Level = DeriveStatus(data)
	st.Incidents = data.Incidents
	st.Maintenances = data.Maintenances
	return st
}

// DeriveStatus folds maintenances and incidents into one level. Active or
// scheduled maintenance is degraded, a critical incident is offline and any
// other incident degrades an otherwise online platform.
func DeriveStatus(data *riot.PlatformData) StatusLevel {
	level := StatusOnline
	for _, m := range data.Maintenances {
		if m.MaintenanceStatus == "in_progress" || m.MaintenanceStatus == "scheduled" {
			level = StatusDegraded
		}
	}
	for _, inc := range data.Incidents {
		severity := "info"
		if inc.IncidentSeverity.Present {
			severity = inc.IncidentSeverity.Value
		}
		switch {
		case severity == "critical":
			level = StatusOffline
		case (severity == "warning" || severity == "info") && level == StatusOnline:
			level = StatusDegraded
		}
	}
	return level
}
