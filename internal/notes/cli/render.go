package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"notekeeper/internal/notes/domain/entities"
)

const timeLayout = "2006-01-02 15:04"

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatDefault
	return t
}

func renderNotes(out io.Writer, notes []*entities.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes.")
		return
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Title", "Kind", "Folder", "Tags", "Flags", "Created"})
	for _, n := range notes {
		folder := ""
		if f := n.Folder(); f != nil {
			folder = f.Name
		}
		t.AppendRow(table.Row{
			n.ID,
			n.Title,
			strings.ToLower(string(n.Kind)),
			folder,
			strings.Join(n.TagNames(), ", "),
			noteFlags(n),
			n.CreatedAt.Local().Format(timeLayout),
		})
	}
	t.Render()
}

func noteFlags(n *entities.Note) string {
	var flags []string
	if n.Favorite {
		flags = append(flags, "★")
	}
	switch {
	case n.OpenMission():
		flags = append(flags, "mission")
	case n.MissionCompleted:
		flags = append(flags, "done")
	}
	if n.Alarm() != nil {
		flags = append(flags, "alarm")
	}
	return strings.Join(flags, " ")
}

func renderNote(out io.Writer, n *entities.Note) {
	t := newTable(out)
	t.AppendRow(table.Row{"ID", n.ID})
	t.AppendRow(table.Row{"Title", n.Title})
	t.AppendRow(table.Row{"Kind", strings.ToLower(string(n.Kind))})
	if f := n.Folder(); f != nil {
		t.AppendRow(table.Row{"Folder", f.Name})
	}
	if n.Kind == entities.KindText {
		t.AppendRow(table.Row{"Content", n.Content})
	} else {
		t.AppendRow(table.Row{"Image", fmt.Sprintf("%d bytes", len(n.Image))})
	}
	t.AppendRow(table.Row{"Tags", strings.Join(n.TagNames(), ", ")})
	t.AppendRow(table.Row{"Favorite", n.Favorite})
	if n.Mission {
		t.AppendRow(table.Row{"Mission", fmt.Sprintf("%s (completed: %t)", n.MissionText, n.MissionCompleted)})
	}
	if a := n.Alarm(); a != nil {
		t.AppendRow(table.Row{"Alarm", describeAlarm(a)})
	}
	t.AppendRow(table.Row{"Created", n.CreatedAt.Local().Format(timeLayout)})
	t.AppendRow(table.Row{"Updated", n.UpdatedAt.Local().Format(timeLayout)})
	t.Render()
}

func describeAlarm(a *entities.Alarm) string {
	at := a.Time.Local().Format(time.RFC3339)
	if a.Recurring {
		return at + " every " + a.Pattern
	}
	return at
}

func renderFolders(out io.Writer, folders []*entities.Folder) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Name", "Notes", "Sub-folders", "Favorite"})
	for _, f := range folders {
		fav := ""
		if f.Favorite {
			fav = "★"
		}
		t.AppendRow(table.Row{f.ID, f.Name, len(f.Notes()), strings.Join(f.SubFolderNames(), ", "), fav})
	}
	t.Render()
}

func renderTags(out io.Writer, tags []*entities.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags.")
		return
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, tag := range tags {
		t.AppendRow(table.Row{tag.ID, tag.Name})
	}
	t.Render()
}
