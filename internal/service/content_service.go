package service

import (
	"github.com/revisionlog/internal/revision"
	"github.com/revisionlog/internal/store"
)

// ContentService exposes the revision operations over the document store.
// Every mutating call is exactly one serialized load-mutate-store cycle; a
// failing operation persists nothing.
type ContentService struct {
	store *store.ContentStore
}

// CurrentContent pairs the active revision id with its denormalized text.
type CurrentContent struct {
	VersionID int
	Content   string
}

// NewContentService creates a ContentService instance.
func NewContentService(cs *store.ContentStore) *ContentService {
	return &ContentService{store: cs}
}

// CreateVersion stores a new draft revision and activates it.
func (s *ContentService) CreateVersion(contentID, content, message string) (*revision.Version, error) {
	var created *revision.Version
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		created = state.CreateVersion(content, message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetVersion fetches one revision with content and cached diff.
func (s *ContentService) GetVersion(contentID string, id int) (*revision.Version, error) {
	var found *revision.Version
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		v, err := state.GetVersion(id)
		if err != nil {
			return err
		}
		found = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListVersions returns the metadata-only projection of the ledger.
func (s *ContentService) ListVersions(contentID string, includeArchived bool) ([]revision.VersionSummary, error) {
	var summaries []revision.VersionSummary
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		summaries = state.ListVersionSummaries(includeArchived)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteVersion removes a revision and everything referencing it.
func (s *ContentService) DeleteVersion(contentID string, id int) error {
	return s.store.Update(contentID, func(state *revision.ContentState) error {
		return state.DeleteVersion(id)
	})
}

// Revert creates a new revision from a historical one.
func (s *ContentService) Revert(contentID string, id int) (*revision.Version, error) {
	var created *revision.Version
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		v, err := state.Revert(id)
		if err != nil {
			return err
		}
		created = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ArchiveVersion parks a draft revision.
func (s *ContentService) ArchiveVersion(contentID string, id int) (*revision.Version, error) {
	var archived *revision.Version
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		v, err := state.ArchiveVersion(id)
		if err != nil {
			return err
		}
		archived = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archived, nil
}

// RestoreVersion returns an archived revision to draft.
func (s *ContentService) RestoreVersion(contentID string, id int) (*revision.Version, error) {
	var restored *revision.Version
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		v, err := state.RestoreVersion(id)
		if err != nil {
			return err
		}
		restored = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// CreateTag attaches a unique name to a revision.
func (s *ContentService) CreateTag(contentID string, versionID int, name string) (*revision.Tag, error) {
	var created *revision.Tag
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		tag, err := state.CreateTag(versionID, name)
		if err != nil {
			return err
		}
		created = tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RenameTag changes a tag name while keeping uniqueness.
func (s *ContentService) RenameTag(contentID, oldName, newName string) (*revision.Tag, error) {
	var renamed *revision.Tag
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		tag, err := state.RenameTag(oldName, newName)
		if err != nil {
			return err
		}
		renamed = tag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// DeleteTag removes a tag by name.
func (s *ContentService) DeleteTag(contentID, name string) error {
	return s.store.Update(contentID, func(state *revision.ContentState) error {
		return state.DeleteTag(name)
	})
}

// ListTags returns all tags in creation order.
func (s *ContentService) ListTags(contentID string) ([]*revision.Tag, error) {
	var tags []*revision.Tag
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		tags = state.ListTags()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTagsForVersion returns the tags pointing at one revision.
func (s *ContentService) ListTagsForVersion(contentID string, versionID int) ([]*revision.Tag, error) {
	var tags []*revision.Tag
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		tags = state.ListTagsForVersion(versionID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Publish makes a revision the single published one.
func (s *ContentService) Publish(contentID string, versionID int, publishedBy string) (*revision.PublishRecord, error) {
	var record *revision.PublishRecord
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		rec, err := state.Publish(versionID, publishedBy)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Unpublish returns a revision to draft, stamping its publish records.
func (s *ContentService) Unpublish(contentID string, versionID int) (*revision.Version, error) {
	var unpublished *revision.Version
	err := s.store.Update(contentID, func(state *revision.ContentState) error {
		v, err := state.Unpublish(versionID)
		if err != nil {
			return err
		}
		unpublished = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unpublished, nil
}

// GetPublishHistory returns the audit trail in insertion order.
func (s *ContentService) GetPublishHistory(contentID string) ([]*revision.PublishRecord, error) {
	var records []*revision.PublishRecord
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		records = state.PublishRecords()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Compare diffs the stored content of two revisions in caller order.
func (s *ContentService) Compare(contentID string, fromID, toID int) (*revision.ContentDiff, error) {
	var diff *revision.ContentDiff
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		d, err := state.Compare(fromID, toID)
		if err != nil {
			return err
		}
		diff = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diff, nil
}

// CompareLatest diffs the two most recently created revisions.
func (s *ContentService) CompareLatest(contentID string) (*revision.ContentDiff, error) {
	var diff *revision.ContentDiff
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		d, err := state.CompareLatest()
		if err != nil {
			return err
		}
		diff = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diff, nil
}

// FormattedDiff renders a comparison as a display-ready report.
func (s *ContentService) FormattedDiff(contentID string, fromID, toID int) (string, error) {
	var report string
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		r, err := state.FormattedDiff(fromID, toID)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return "", err
	}
	return report, nil
}

// GetCurrentContent returns the active revision id and its text. A zero
// version id means nothing is active.
func (s *ContentService) GetCurrentContent(contentID string) (*CurrentContent, error) {
	var current CurrentContent
	err := s.store.View(contentID, func(state *revision.ContentState) error {
		current = CurrentContent{VersionID: state.CurrentVersion, Content: state.Content}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &current, nil
}
