package revision

import (
	"errors"
	"testing"
)

func countPublished(state *ContentState) int {
	n := 0
	for _, v := range state.Versions {
		if v.Status == StatusPublished {
			n++
		}
	}
	return n
}

func TestPublishActivatesAndRecords(t *testing.T) {
	state := NewContentState()
	state.CreateVersion("hello", "")
	state.CreateVersion("hello world", "")

	rec, err := state.Publish(2, "alice")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if rec.VersionID != 2 || rec.PublishedBy != "alice" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.ID == "" {
		t.Fatal("expected a record id")
	}
	if rec.PublishedAt.IsZero() {
		t.Fatal("expected publishedAt to be set")
	}

	v1, _ := state.GetVersion(1)
	v2, _ := state.GetVersion(2)
	if v1.Status != StatusDraft || v2.Status != StatusPublished {
		t.Fatalf("unexpected statuses: v1=%s v2=%s", v1.Status, v2.Status)
	}
	if state.CurrentVersion != 2 || state.Content != "hello world" {
		t.Fatalf("expected version 2 active, got current=%d content=%q", state.CurrentVersion, state.Content)
	}
}

func TestPublishIsExclusive(t *testing.T) {
	state := NewContentState()
	state.CreateVersion("a", "")
	state.CreateVersion("b", "")
	state.CreateVersion("c", "")

	for _, id := range []int{1, 2, 3} {
		if _, err := state.Publish(id, "bob"); err != nil {
			t.Fatalf("publish %d: %v", id, err)
		}
		if got := countPublished(state); got != 1 {
			t.Fatalf("expected exactly one published revision after publishing %d, got %d", id, got)
		}
	}

	if len(state.PublishHistory) != 3 {
		t.Fatalf("expected 3 publish records, got %d", len(state.PublishHistory))
	}
	for i, rec := range state.PublishHistory {
		if rec.VersionID != i+1 {
			t.Fatalf("history out of insertion order: %+v", state.PublishHistory)
		}
	}
}

func TestPublishMissingVersion(t *testing.T) {
	state := NewContentState()
	if _, err := state.Publish(1, "alice"); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestPublishArchivedVersion(t *testing.T) {
	state := NewContentState()
	state.CreateVersion("a", "")
	state.CreateVersion("b", "")
	if _, err := state.ArchiveVersion(1); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if _, err := state.Publish(1, "alice"); err != nil {
		t.Fatalf("publishing an archived revision: %v", err)
	}
	v1, _ := state.GetVersion(1)
	if v1.Status != StatusPublished {
		t.Fatalf("expected published, got %s", v1.Status)
	}
}

func TestUnpublishStampsRecordsInsteadOfDeleting(t *testing.T) {
	state := NewContentState()
	state.CreateVersion("a", "")
	if _, err := state.Publish(1, "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	v, err := state.Unpublish(1)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	if v.Status != StatusDraft {
		t.Fatalf("expected draft after unpublish, got %s", v.Status)
	}
	if state.CurrentVersion != 0 || state.Content != "" {
		t.Fatalf("expected cleared current pointer, got current=%d content=%q", state.CurrentVersion, state.Content)
	}
	if len(state.PublishHistory) != 1 {
		t.Fatalf("history must stay append-only, got %d records", len(state.PublishHistory))
	}
	if state.PublishHistory[0].UnpublishedAt == nil {
		t.Fatal("expected the record to be stamped with the unpublish time")
	}
}

func TestRepublishAfterUnpublishOpensNewRecord(t *testing.T) {
	state := NewContentState()
	state.CreateVersion("a", "")

	if _, err := state.Publish(1, "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := state.Unpublish(1); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if _, err := state.Publish(1, "bob"); err != nil {
		t.Fatalf("republish: %v", err)
	}

	records := state.PublishRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].UnpublishedAt == nil {
		t.Fatal("first record must remain stamped")
	}
	if records[1].UnpublishedAt != nil {
		t.Fatal("new record must be open")
	}
}

func TestUnpublishMissingVersion(t *testing.T) {
	state := NewContentState()
	if _, err := state.Unpublish(7); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}
