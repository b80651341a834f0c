package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/revisionlog/internal/db"
	"github.com/revisionlog/internal/revision"
	"github.com/revisionlog/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupContentService(t *testing.T) (*ContentService, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:content-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.ContentDocument{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	svc := NewContentService(store.NewContentStore(gdb))
	return svc, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestCreateAndDiffScenario(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	v1, err := svc.CreateVersion("default", "hello", "")
	if err != nil {
		t.Fatalf("create version 1: %v", err)
	}
	if v1.ID != 1 || v1.Status != revision.StatusDraft || v1.Diff != nil {
		t.Fatalf("unexpected first version %+v", v1)
	}

	v2, err := svc.CreateVersion("default", "hello world", "")
	if err != nil {
		t.Fatalf("create version 2: %v", err)
	}
	if v2.Diff == nil {
		t.Fatal("expected a cached diff on version 2")
	}
	// Both contents are one line, so the heuristic reports zero changes
	// even though the text differs and the patch is non-empty.
	if v2.Diff.TotalChanges != 0 || v2.Diff.Patch == "" {
		t.Fatalf("unexpected diff %+v", v2.Diff)
	}
}

func TestPublishScenario(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "hello", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateVersion("default", "hello world", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := svc.Publish("default", 2, "alice")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if rec.VersionID != 2 || rec.PublishedBy != "alice" {
		t.Fatalf("unexpected record %+v", rec)
	}

	v1, err := svc.GetVersion("default", 1)
	if err != nil {
		t.Fatalf("get version 1: %v", err)
	}
	v2, err := svc.GetVersion("default", 2)
	if err != nil {
		t.Fatalf("get version 2: %v", err)
	}
	if v1.Status != revision.StatusDraft || v2.Status != revision.StatusPublished {
		t.Fatalf("unexpected statuses: v1=%s v2=%s", v1.Status, v2.Status)
	}

	current, err := svc.GetCurrentContent("default")
	if err != nil {
		t.Fatalf("current content: %v", err)
	}
	if current.VersionID != 2 || current.Content != "hello world" {
		t.Fatalf("unexpected current %+v", current)
	}
}

func TestTagUniquenessScenario(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "hello", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateVersion("default", "hello world", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.CreateTag("default", 1, "v1.0"); err != nil {
		t.Fatalf("tag version 1: %v", err)
	}
	if _, err := svc.CreateTag("default", 2, "v1.0"); !errors.Is(err, revision.ErrTagExists) {
		t.Fatalf("expected ErrTagExists, got %v", err)
	}

	tags, err := svc.ListTags("default")
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("the failed tag must not be persisted, got %d tags", len(tags))
	}
}

func TestDeletePublishedScenario(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "hello", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish("default", 1, "alice"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := svc.DeleteVersion("default", 1); !errors.Is(err, revision.ErrVersionPublished) {
		t.Fatalf("expected ErrVersionPublished, got %v", err)
	}

	// The strict policy applies consistently: the revision survives.
	if _, err := svc.GetVersion("default", 1); err != nil {
		t.Fatalf("published revision must survive the rejected delete: %v", err)
	}
}

func TestRevertScenario(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "hello", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateVersion("default", "hello world", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	v3, err := svc.Revert("default", 1)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if v3.ID != 3 || v3.Content != "hello" {
		t.Fatalf("unexpected revert result %+v", v3)
	}
	if v3.Message != "Reverted to version 1" {
		t.Fatalf("unexpected message %q", v3.Message)
	}

	v1, err := svc.GetVersion("default", 1)
	if err != nil {
		t.Fatalf("get version 1: %v", err)
	}
	if v1.Content != "hello" || v1.Status != revision.StatusDraft {
		t.Fatalf("revert must not touch the target: %+v", v1)
	}
}

func TestOperationsPersistAcrossCalls(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "a", "first"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateVersion("default", "b", "second"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Publish("default", 2, "carol"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Unpublish("default", 2); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	records, err := svc.GetPublishHistory("default")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].UnpublishedAt == nil {
		t.Fatal("unpublish stamp lost between operations")
	}

	summaries, err := svc.ListVersions("default", false)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Message != "first" || summaries[1].Message != "second" {
		t.Fatalf("listing out of creation order: %+v", summaries)
	}
}

func TestFormattedDiffThroughService(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "old body", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateVersion("default", "new body", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	report, err := svc.FormattedDiff("default", 1, 2)
	if err != nil {
		t.Fatalf("formatted diff: %v", err)
	}
	if !strings.Contains(report, "old body") || !strings.Contains(report, "new body") {
		t.Fatalf("report missing contents:\n%s", report)
	}

	if _, err := svc.FormattedDiff("default", 1, 9); !errors.Is(err, revision.ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestArchiveRoundTripThroughService(t *testing.T) {
	svc, cleanup := setupContentService(t)
	defer cleanup()

	if _, err := svc.CreateVersion("default", "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	archived, err := svc.ArchiveVersion("default", 1)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != revision.StatusArchived {
		t.Fatalf("expected archived, got %s", archived.Status)
	}

	summaries, err := svc.ListVersions("default", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("archived revision must be hidden by default, got %+v", summaries)
	}

	restored, err := svc.RestoreVersion("default", 1)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Status != revision.StatusDraft {
		t.Fatalf("expected draft after restore, got %s", restored.Status)
	}
}
