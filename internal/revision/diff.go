package revision

import (
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// lineCount counts newline-separated lines; the empty string is one line.
func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// Diff compares two content strings and returns the patch plus change
// statistics. The patch is a real unified diff labeled with the supplied
// identifiers. The statistics are the net line-count delta: a change that
// keeps the line count identical reports zero additions and deletions even
// when the text differs. Both shapes are part of the stored format and must
// stay distinct.
func Diff(fromLabel, toLabel, from, to string) ContentDiff {
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	})
	if err != nil {
		patch = ""
	}

	fromLines := lineCount(from)
	toLines := lineCount(to)

	additions := toLines - fromLines
	if additions < 0 {
		additions = 0
	}
	deletions := fromLines - toLines
	if deletions < 0 {
		deletions = 0
	}

	return ContentDiff{
		Additions:    additions,
		Deletions:    deletions,
		TotalChanges: additions + deletions,
		ComputedAt:   time.Now().UTC(),
		Patch:        patch,
	}
}
