package analytics

import "time"

// QuotaStatus reports one identity's standing against the shared-key
// daily limit.
type QuotaStatus struct {
	Allowed   bool
	Used      int64
	Limit     int64
	Remaining int64
	ResetsAt  time.Time
}

// CheckQuota evaluates the shared-key daily quota for an identity hash.
// The window is the current UTC calendar day; usage is derived from
// recorded translation events, so the check is approximate under
// concurrency and enforcement is soft.
func (s *Service) CheckQuota(identityHash string, limit int64) (QuotaStatus, error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	used, err := s.CountTranslationsSince(identityHash, midnight)
	if err != nil {
		return QuotaStatus{}, err
	}

	status := QuotaStatus{
		Used:     used,
		Limit:    limit,
		ResetsAt: midnight.AddDate(0, 0, 1),
	}
	status.Allowed = used < limit
	if remaining := limit - used; remaining > 0 {
		status.Remaining = remaining
	}
	return status, nil
}
