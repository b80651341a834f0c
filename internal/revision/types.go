package revision

import "time"

// VersionStatus describes the lifecycle state of a revision.
type VersionStatus string

const (
	StatusDraft     VersionStatus = "draft"
	StatusPublished VersionStatus = "published"
	StatusArchived  VersionStatus = "archived"
)

// Version 是内容的一次完整快照。Content 永远保存全文而不是增量。
type Version struct {
	ID        int           `json:"id"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Status    VersionStatus `json:"status"`
	Diff      *ContentDiff  `json:"diff,omitempty"`
}

// VersionSummary is the metadata-only projection used for bulk listing.
type VersionSummary struct {
	ID        int
	Timestamp time.Time
	Message   string
	Status    VersionStatus
}

// DiffHunk describes one contiguous changed region of a patch.
type DiffHunk struct {
	FromStart int `json:"fromStart"`
	FromLines int `json:"fromLines"`
	ToStart   int `json:"toStart"`
	ToLines   int `json:"toLines"`
}

// ContentDiff holds the comparison result between two content strings.
// Patch is a real unified diff; the line counters are the net line-count
// delta, not per-line change counts. Hunks is part of the stored document
// shape but is not populated yet.
type ContentDiff struct {
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	TotalChanges int        `json:"totalChanges"`
	ComputedAt   time.Time  `json:"computedAt"`
	Patch        string     `json:"patch"`
	Hunks        []DiffHunk `json:"hunks,omitempty"`
}

// Tag maps a unique name to a revision.
type Tag struct {
	Name      string     `json:"name"`
	VersionID int        `json:"versionId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PublishRecord 是一条发布审计记录。记录只追加、只打标记，从不被改写；
// 只有所属版本被删除时才随之级联删除。
type PublishRecord struct {
	ID            string     `json:"id"`
	VersionID     int        `json:"versionId"`
	PublishedAt   time.Time  `json:"publishedAt"`
	PublishedBy   string     `json:"publishedBy"`
	UnpublishedAt *time.Time `json:"unpublishedAt,omitempty"`
}

// ContentState is the single persisted aggregate for one content id:
// the ordered version ledger, the tag registry, the publish history and
// the current pointer with its denormalized content.
type ContentState struct {
	CurrentVersion int              `json:"currentVersion"`
	Versions       []*Version       `json:"versions"`
	Tags           map[string]*Tag  `json:"tags"`
	Content        string           `json:"content"`
	PublishHistory []*PublishRecord `json:"publishHistory"`
}

// NewContentState returns an empty aggregate.
func NewContentState() *ContentState {
	return &ContentState{Tags: make(map[string]*Tag)}
}

func (s *ContentState) setCurrent(v *Version) {
	s.CurrentVersion = v.ID
	s.Content = v.Content
}

func (s *ContentState) clearCurrent() {
	s.CurrentVersion = 0
	s.Content = ""
}
