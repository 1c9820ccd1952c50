package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yukikurage/note-api/pkg/notestore"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	pinnedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noteStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

var statusText = map[notestore.Status]string{
	notestore.StatusOpen:       "open",
	notestore.StatusInProgress: "in progress",
	notestore.StatusCompleted:  "done",
}

func renderNote(n notestore.Note) string {
	var header strings.Builder
	if n.IsPinned {
		header.WriteString(pinnedStyle.Render("*") + " ")
	}
	header.WriteString(titleStyle.Render(n.Title))
	header.WriteString(" " + mutedStyle.Render("["+statusText[n.Status]+"]"))

	lines := []string{header.String()}
	if n.Content != "" {
		lines = append(lines, n.Content)
	}
	if len(n.Labels) > 0 {
		tags := make([]string, len(n.Labels))
		for i, l := range n.Labels {
			tags[i] = labelStyle.Render(l)
		}
		lines = append(lines, strings.Join(tags, " "))
	}
	lines = append(lines, mutedStyle.Render(n.ID))

	return noteStyle.Render(strings.Join(lines, "\n"))
}

func printNotes(w io.Writer, notes []notestore.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no notes"))
		return
	}
	for _, n := range notes {
		fmt.Fprintln(w, renderNote(n))
	}
}

func printLabels(w io.Writer, labels []notestore.Label) {
	if len(labels) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no labels"))
		return
	}
	for _, l := range labels {
		id := l.ID
		if id == "" {
			id = "(from notes only)"
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(l.Name), mutedStyle.Render(id))
	}
}
