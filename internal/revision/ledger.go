package revision

import (
	"fmt"
	"strings"
	"time"
)

// nextVersionID 返回 max(existing)+1，空账本返回 1。
// 不能用列表长度推导，否则删除后会复用编号。
func (s *ContentState) nextVersionID() int {
	max := 0
	for _, v := range s.Versions {
		if v.ID > max {
			max = v.ID
		}
	}
	return max + 1
}

// CreateVersion appends a new draft revision and makes it the active one.
// The diff against the previously-current content is computed once here and
// cached on the version; the very first revision carries no diff.
func (s *ContentState) CreateVersion(content, message string) *Version {
	if strings.TrimSpace(message) == "" {
		message = "New version"
	}

	v := &Version{
		ID:        s.nextVersionID(),
		Content:   content,
		Timestamp: time.Now().UTC(),
		Message:   message,
		Status:    StatusDraft,
	}

	if len(s.Versions) > 0 {
		fromLabel := "empty"
		if s.CurrentVersion != 0 {
			fromLabel = fmt.Sprintf("version %d", s.CurrentVersion)
		}
		d := Diff(fromLabel, fmt.Sprintf("version %d", v.ID), s.Content, content)
		v.Diff = &d
	}

	s.Versions = append(s.Versions, v)
	s.setCurrent(v)
	return v
}

// GetVersion fetches a revision by id.
func (s *ContentState) GetVersion(id int) (*Version, error) {
	if id <= 0 {
		return nil, ErrInvalidVersionID
	}
	for _, v := range s.Versions {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, ErrVersionNotFound
}

// ListVersions returns every revision in creation order.
func (s *ContentState) ListVersions() []*Version {
	return s.Versions
}

// ListVersionSummaries returns the metadata-only projection in creation
// order. Archived revisions are skipped unless includeArchived is set.
func (s *ContentState) ListVersionSummaries(includeArchived bool) []VersionSummary {
	summaries := make([]VersionSummary, 0, len(s.Versions))
	for _, v := range s.Versions {
		if v.Status == StatusArchived && !includeArchived {
			continue
		}
		summaries = append(summaries, VersionSummary{
			ID:        v.ID,
			Timestamp: v.Timestamp,
			Message:   v.Message,
			Status:    v.Status,
		})
	}
	return summaries
}

// DeleteVersion removes a revision. A published revision cannot be deleted.
// Tags pointing at the revision and its publish records are removed in the
// same operation; deleting the active revision clears the current pointer.
func (s *ContentState) DeleteVersion(id int) error {
	v, err := s.GetVersion(id)
	if err != nil {
		return err
	}
	if v.Status == StatusPublished {
		return ErrVersionPublished
	}

	kept := make([]*Version, 0, len(s.Versions)-1)
	for _, existing := range s.Versions {
		if existing.ID != id {
			kept = append(kept, existing)
		}
	}
	s.Versions = kept

	for name, tag := range s.Tags {
		if tag.VersionID == id {
			delete(s.Tags, name)
		}
	}

	records := make([]*PublishRecord, 0, len(s.PublishHistory))
	for _, rec := range s.PublishHistory {
		if rec.VersionID != id {
			records = append(records, rec)
		}
	}
	s.PublishHistory = records

	if s.CurrentVersion == id {
		s.clearCurrent()
	}
	return nil
}

// Revert creates a new revision carrying the target's content. The target
// itself is never touched; revert is purely create-from-history.
func (s *ContentState) Revert(id int) (*Version, error) {
	target, err := s.GetVersion(id)
	if err != nil {
		return nil, err
	}
	return s.CreateVersion(target.Content, fmt.Sprintf("Reverted to version %d", id)), nil
}

// ArchiveVersion parks a draft revision. Published revisions must be
// unpublished first; archiving the active revision clears the current
// pointer. Archiving an archived revision is a no-op.
func (s *ContentState) ArchiveVersion(id int) (*Version, error) {
	v, err := s.GetVersion(id)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusPublished {
		return nil, ErrVersionPublished
	}
	if v.Status == StatusArchived {
		return v, nil
	}

	v.Status = StatusArchived
	if s.CurrentVersion == id {
		s.clearCurrent()
	}
	return v, nil
}

// RestoreVersion returns an archived revision to draft.
func (s *ContentState) RestoreVersion(id int) (*Version, error) {
	v, err := s.GetVersion(id)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusArchived {
		v.Status = StatusDraft
	}
	return v, nil
}
