package revision

import (
	"sort"
	"strings"
	"time"
)

// CreateTag attaches a unique name to an existing revision.
func (s *ContentState) CreateTag(versionID int, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}
	if _, err := s.GetVersion(versionID); err != nil {
		return nil, err
	}
	if _, exists := s.Tags[name]; exists {
		return nil, ErrTagExists
	}

	if s.Tags == nil {
		s.Tags = make(map[string]*Tag)
	}
	tag := &Tag{
		Name:      name,
		VersionID: versionID,
		CreatedAt: time.Now().UTC(),
	}
	s.Tags[name] = tag
	return tag, nil
}

// RenameTag changes a tag's name while keeping uniqueness. The referenced
// version and creation time are preserved; renaming a tag to its current
// name conflicts with itself.
func (s *ContentState) RenameTag(oldName, newName string) (*Tag, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrTagNameRequired
	}

	tag, ok := s.Tags[oldName]
	if !ok {
		return nil, ErrTagNotFound
	}
	if _, taken := s.Tags[newName]; taken {
		return nil, ErrTagExists
	}

	delete(s.Tags, oldName)
	now := time.Now().UTC()
	tag.Name = newName
	tag.UpdatedAt = &now
	s.Tags[newName] = tag
	return tag, nil
}

// DeleteTag removes a tag by name.
func (s *ContentState) DeleteTag(name string) error {
	if _, ok := s.Tags[name]; !ok {
		return ErrTagNotFound
	}
	delete(s.Tags, name)
	return nil
}

// ListTags returns all tags ordered by creation time, then name.
func (s *ContentState) ListTags() []*Tag {
	tags := make([]*Tag, 0, len(s.Tags))
	for _, tag := range s.Tags {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if !tags[i].CreatedAt.Equal(tags[j].CreatedAt) {
			return tags[i].CreatedAt.Before(tags[j].CreatedAt)
		}
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// ListTagsForVersion returns the tags pointing at one revision.
func (s *ContentState) ListTagsForVersion(versionID int) []*Tag {
	tags := make([]*Tag, 0)
	for _, tag := range s.ListTags() {
		if tag.VersionID == versionID {
			tags = append(tags, tag)
		}
	}
	return tags
}
