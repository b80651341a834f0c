package revision

import (
	"fmt"
	"strings"
	"time"
)

// Compare diffs the stored content of two revisions. The order is
// caller-determined; comparing a newer revision to an older one is legal.
func (s *ContentState) Compare(fromID, toID int) (*ContentDiff, error) {
	from, err := s.GetVersion(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetVersion(toID)
	if err != nil {
		return nil, err
	}

	d := Diff(
		fmt.Sprintf("version %d", from.ID),
		fmt.Sprintf("version %d", to.ID),
		from.Content,
		to.Content,
	)
	return &d, nil
}

// CompareLatest diffs the two most recently created revisions. It needs at
// least two revisions in the ledger.
func (s *ContentState) CompareLatest() (*ContentDiff, error) {
	if len(s.Versions) < 2 {
		return nil, ErrNotEnoughVersions
	}
	from := s.Versions[len(s.Versions)-2]
	to := s.Versions[len(s.Versions)-1]
	return s.Compare(from.ID, to.ID)
}

// FormattedDiff renders a comparison as a display-ready text block with
// both full contents and the patch. Not meant for machine consumption.
func (s *ContentState) FormattedDiff(fromID, toID int) (string, error) {
	from, err := s.GetVersion(fromID)
	if err != nil {
		return "", err
	}
	to, err := s.GetVersion(toID)
	if err != nil {
		return "", err
	}

	d := Diff(
		fmt.Sprintf("version %d", from.ID),
		fmt.Sprintf("version %d", to.ID),
		from.Content,
		to.Content,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Comparing version %d to version %d\n\n", from.ID, to.ID)
	fmt.Fprintf(&b, "=== version %d (%s) ===\n%s\n\n", from.ID, from.Timestamp.Format(time.RFC3339), from.Content)
	fmt.Fprintf(&b, "=== version %d (%s) ===\n%s\n\n", to.ID, to.Timestamp.Format(time.RFC3339), to.Content)
	fmt.Fprintf(&b, "=== patch ===\n%s\n", d.Patch)
	fmt.Fprintf(&b, "lines: +%d -%d (%d changed)\n", d.Additions, d.Deletions, d.TotalChanges)
	return b.String(), nil
}
