package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/grantplan/internal/domain"
)

// FormatSnapshotList renders a project's snapshots, newest last.
func FormatSnapshotList(project *domain.Project, snaps []*domain.Snapshot) string {
	title := "Snapshots"
	if project != nil {
		title = "Snapshots · " + project.DisplayID()
	}
	if len(snaps) == 0 {
		return RenderBox(title, Dim("No snapshots yet."))
	}

	cols := append([]Column{{Header: "ID", ID: true}}, Cols("NAME", "REV", "BY", "TAKEN")...)
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			s.ID,
			Bold(s.Name),
			StyleBlue.Render(ShortRev(s.Rev)),
			s.CreatedBy,
			HumanTimestamp(s.CreatedAt),
		})
	}
	return RenderBox(title, RenderTable(cols, rows))
}

// FormatSnapshotCreated confirms a new snapshot.
func FormatSnapshotCreated(s *domain.Snapshot) string {
	return fmt.Sprintf("%s %s %s %s\n",
		StyleGreen.Render("✔ Snapshot"),
		Bold(s.Name),
		StyleBlue.Render(ShortRev(s.Rev)),
		TruncID(s.ID))
}

// FormatRestoreResult confirms a restore.
func FormatRestoreResult(project *domain.Project, snap *domain.Snapshot, counts domain.TreeCounts, dropped, lost int, gap bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s %s\n",
		StyleGreen.Render("✔ Restored"),
		Bold(project.DisplayID()),
		Dim("from"),
		Bold(snap.Name)))
	b.WriteString("  " + Dim(FormatCounts(counts)) + "\n")
	if dropped > 0 {
		b.WriteString("  " + StyleYellow.Render(Count(dropped, "partner link")+" dropped") + "\n")
	}
	if lost > 0 {
		b.WriteString("  " + StyleYellow.Render(Count(lost, "member")+" could not be carried over") + "\n")
	}
	if gap {
		b.WriteString("  " + StyleRed.Render("no membership was recorded for you; check the log") + "\n")
	}
	return b.String()
}

// ColorDiff tints unified diff lines.
func ColorDiff(diff string) string {
	if diff == "" {
		return Dim("No differences.") + "\n"
	}
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = StyleBold.Render(l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = StylePurple.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = StyleGreen.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = StyleRed.Render(l)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
