package revision

import (
	"time"

	"github.com/google/uuid"
)

// Publish makes the target the single published revision. Any other
// published revision is demoted back to draft, a publish record is appended
// and the target becomes the active content.
func (s *ContentState) Publish(versionID int, publishedBy string) (*PublishRecord, error) {
	v, err := s.GetVersion(versionID)
	if err != nil {
		return nil, err
	}

	for _, other := range s.Versions {
		if other.ID != v.ID && other.Status == StatusPublished {
			other.Status = StatusDraft
		}
	}
	v.Status = StatusPublished

	record := &PublishRecord{
		ID:          uuid.NewString(),
		VersionID:   v.ID,
		PublishedAt: time.Now().UTC(),
		PublishedBy: publishedBy,
	}
	s.PublishHistory = append(s.PublishHistory, record)
	s.setCurrent(v)
	return record, nil
}

// Unpublish returns the target revision to draft. Its open publish records
// are stamped with the unpublish time rather than removed, so the history
// stays append-only. If the target was active, the current pointer is
// cleared.
func (s *ContentState) Unpublish(versionID int) (*Version, error) {
	v, err := s.GetVersion(versionID)
	if err != nil {
		return nil, err
	}

	v.Status = StatusDraft

	now := time.Now().UTC()
	for _, rec := range s.PublishHistory {
		if rec.VersionID == versionID && rec.UnpublishedAt == nil {
			rec.UnpublishedAt = &now
		}
	}

	if s.CurrentVersion == versionID {
		s.clearCurrent()
	}
	return v, nil
}

// PublishRecords returns the audit trail in insertion order.
func (s *ContentState) PublishRecords() []*PublishRecord {
	return s.PublishHistory
}
