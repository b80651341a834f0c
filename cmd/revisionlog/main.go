package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/revisionlog/internal/config"
	"github.com/revisionlog/internal/db"
	"github.com/revisionlog/internal/render"
	"github.com/revisionlog/internal/revision"
	"github.com/revisionlog/internal/service"
	"github.com/revisionlog/internal/store"
)

const usageText = `usage: revisionlog [-db path] [-content id] <command> [args]

commands:
  create [-m message] [content]   store a new revision (reads stdin without content arg)
  get <id>                        print one revision with its cached diff
  list [-all]                     list revisions (-all includes archived)
  delete <id>                     delete a revision and everything referencing it
  revert <id>                     create a new revision from a historical one
  archive <id>                    park a draft revision
  restore <id>                    return an archived revision to draft
  tag <id> <name>                 attach a tag to a revision
  rename-tag <old> <new>          rename a tag
  delete-tag <name>               remove a tag
  tags [-version id]              list tags
  publish <id> [-by name]         publish a revision
  unpublish <id>                  return a revision to draft
  history                         print the publish audit trail
  compare [from] [to]             print the patch and change statistics (defaults to the two newest)
  diff <from> <to>                print the full formatted comparison
  show [-html]                    print the current content (optionally as HTML)
`

func main() {
	cfg := config.Load()

	var dbPath, contentID string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.StringVar(&contentID, "content", cfg.ContentID, "content id to operate on")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	svc := service.NewContentService(store.NewContentStore(db.DB))
	if err := run(svc, contentID, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the failure taxonomy to distinct exit codes so callers can
// branch without parsing messages.
func exitCode(err error) int {
	switch {
	case revision.IsNotFound(err):
		return 3
	case revision.IsConflict(err):
		return 4
	case revision.IsInvalidArgument(err):
		return 2
	default:
		return 1
	}
}

func run(svc *service.ContentService, contentID, command string, args []string) error {
	switch command {
	case "create":
		return runCreate(svc, contentID, args)
	case "get":
		return runGet(svc, contentID, args)
	case "list":
		return runList(svc, contentID, args)
	case "delete":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		if err := svc.DeleteVersion(contentID, id); err != nil {
			return err
		}
		fmt.Printf("deleted version %d\n", id)
		return nil
	case "revert":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		v, err := svc.Revert(contentID, id)
		if err != nil {
			return err
		}
		fmt.Printf("created version %d (%s)\n", v.ID, v.Message)
		return nil
	case "archive":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		v, err := svc.ArchiveVersion(contentID, id)
		if err != nil {
			return err
		}
		fmt.Printf("version %d is now %s\n", v.ID, v.Status)
		return nil
	case "restore":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		v, err := svc.RestoreVersion(contentID, id)
		if err != nil {
			return err
		}
		fmt.Printf("version %d is now %s\n", v.ID, v.Status)
		return nil
	case "tag":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return revision.ErrTagNameRequired
		}
		tag, err := svc.CreateTag(contentID, id, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("tagged version %d as %q\n", tag.VersionID, tag.Name)
		return nil
	case "rename-tag":
		if len(args) < 2 {
			return revision.ErrTagNameRequired
		}
		tag, err := svc.RenameTag(contentID, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("renamed tag to %q (version %d)\n", tag.Name, tag.VersionID)
		return nil
	case "delete-tag":
		if len(args) < 1 {
			return revision.ErrTagNameRequired
		}
		if err := svc.DeleteTag(contentID, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted tag %q\n", args[0])
		return nil
	case "tags":
		return runTags(svc, contentID, args)
	case "publish":
		return runPublish(svc, contentID, args)
	case "unpublish":
		id, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		v, err := svc.Unpublish(contentID, id)
		if err != nil {
			return err
		}
		fmt.Printf("version %d is now %s\n", v.ID, v.Status)
		return nil
	case "history":
		return runHistory(svc, contentID)
	case "compare":
		if len(args) == 0 {
			d, err := svc.CompareLatest(contentID)
			if err != nil {
				return err
			}
			fmt.Print(d.Patch)
			fmt.Printf("lines: +%d -%d (%d changed)\n", d.Additions, d.Deletions, d.TotalChanges)
			return nil
		}
		fromID, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		toID, err := parseVersionID(args, 1)
		if err != nil {
			return err
		}
		d, err := svc.Compare(contentID, fromID, toID)
		if err != nil {
			return err
		}
		fmt.Print(d.Patch)
		fmt.Printf("lines: +%d -%d (%d changed)\n", d.Additions, d.Deletions, d.TotalChanges)
		return nil
	case "diff":
		fromID, err := parseVersionID(args, 0)
		if err != nil {
			return err
		}
		toID, err := parseVersionID(args, 1)
		if err != nil {
			return err
		}
		report, err := svc.FormattedDiff(contentID, fromID, toID)
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	case "show":
		return runShow(svc, contentID, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runCreate(svc *service.ContentService, contentID string, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	var message string
	fs.StringVar(&message, "m", "", "version message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var content string
	if fs.NArg() > 0 {
		content = fs.Arg(0)
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		content = string(raw)
	}

	v, err := svc.CreateVersion(contentID, content, message)
	if err != nil {
		return err
	}
	fmt.Printf("created version %d\n", v.ID)
	return nil
}

func runGet(svc *service.ContentService, contentID string, args []string) error {
	id, err := parseVersionID(args, 0)
	if err != nil {
		return err
	}
	v, err := svc.GetVersion(contentID, id)
	if err != nil {
		return err
	}

	fmt.Printf("version %d (%s)\n", v.ID, v.Status)
	fmt.Printf("created: %s\n", v.Timestamp.Format(time.RFC3339))
	fmt.Printf("message: %s\n", v.Message)
	fmt.Printf("\n%s\n", v.Content)
	if v.Diff != nil {
		fmt.Printf("\ndiff from previous (+%d -%d):\n%s", v.Diff.Additions, v.Diff.Deletions, v.Diff.Patch)
	}
	return nil
}

func runList(svc *service.ContentService, contentID string, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	var includeArchived bool
	fs.BoolVar(&includeArchived, "all", false, "include archived revisions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := svc.ListVersions(contentID, includeArchived)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Status", "Created", "Message"})
	for _, s := range summaries {
		t.AppendRow(table.Row{s.ID, s.Status, s.Timestamp.Format(time.RFC3339), s.Message})
	}
	t.Render()
	return nil
}

func runTags(svc *service.ContentService, contentID string, args []string) error {
	fs := flag.NewFlagSet("tags", flag.ExitOnError)
	var versionID int
	fs.IntVar(&versionID, "version", 0, "only tags for this revision")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var tags []*revision.Tag
	var err error
	if versionID > 0 {
		tags, err = svc.ListTagsForVersion(contentID, versionID)
	} else {
		tags, err = svc.ListTags(contentID)
	}
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Version", "Created", "Updated"})
	for _, tag := range tags {
		updated := ""
		if tag.UpdatedAt != nil {
			updated = tag.UpdatedAt.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{tag.Name, tag.VersionID, tag.CreatedAt.Format(time.RFC3339), updated})
	}
	t.Render()
	return nil
}

func runPublish(svc *service.ContentService, contentID string, args []string) error {
	id, err := parseVersionID(args, 0)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	var publishedBy string
	fs.StringVar(&publishedBy, "by", "cli", "who publishes")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	rec, err := svc.Publish(contentID, id, publishedBy)
	if err != nil {
		return err
	}
	fmt.Printf("published version %d by %s at %s\n", rec.VersionID, rec.PublishedBy, rec.PublishedAt.Format(time.RFC3339))
	return nil
}

func runHistory(svc *service.ContentService, contentID string) error {
	records, err := svc.GetPublishHistory(contentID)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Version", "Published By", "Published At", "Unpublished At"})
	for _, rec := range records {
		unpublished := ""
		if rec.UnpublishedAt != nil {
			unpublished = rec.UnpublishedAt.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{rec.VersionID, rec.PublishedBy, rec.PublishedAt.Format(time.RFC3339), unpublished})
	}
	t.Render()
	return nil
}

func runShow(svc *service.ContentService, contentID string, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	var asHTML bool
	fs.BoolVar(&asHTML, "html", false, "render the content as sanitized HTML")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := svc.GetCurrentContent(contentID)
	if err != nil {
		return err
	}
	if current.VersionID == 0 {
		fmt.Println("no active version")
		return nil
	}

	if asHTML {
		htmlContent, err := render.Markdown(current.Content)
		if err != nil {
			return err
		}
		fmt.Println(htmlContent)
		return nil
	}

	fmt.Println(current.Content)
	return nil
}

func parseVersionID(args []string, pos int) (int, error) {
	if len(args) <= pos {
		return 0, revision.ErrInvalidVersionID
	}
	id, err := strconv.Atoi(args[pos])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", args[pos], revision.ErrInvalidVersionID)
	}
	return id, nil
}
