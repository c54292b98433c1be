package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/goclockify/clockify"
)

// SummarySource is the subset of *clockify.Client a summary needs.
type SummarySource interface {
	Projects(ctx context.Context, ws clockify.WorkspaceRef) ([]clockify.Project, error)
	Tasks(ctx context.Context, ws clockify.WorkspaceRef, project clockify.ProjectRef) ([]clockify.Task, error)
	Tags(ctx context.Context, ws clockify.WorkspaceRef) ([]clockify.Tag, error)
	TimeEntries(ctx context.Context, ws clockify.WorkspaceRef, user clockify.UserRef) ([]clockify.TimeEntry, error)
	Clients(ctx context.Context, ws clockify.WorkspaceRef) ([]clockify.ProjectClient, error)
}

var _ SummarySource = (*clockify.Client)(nil)

type ProjectSummary struct {
	Project clockify.Project
	Tasks   []clockify.Task
}

type WorkspaceSummary struct {
	Workspace clockify.Workspace
	Projects  []ProjectSummary
	Tags      []clockify.Tag
	Entries   []clockify.TimeEntry
	Clients   []clockify.ProjectClient
}

// CollectSummary fetches everything shown for one workspace. Time entries are
// those of user, or of the authenticated user when user is nil.
func CollectSummary(ctx context.Context, src SummarySource, ws clockify.Workspace, user clockify.UserRef) (WorkspaceSummary, error) {
	summary := WorkspaceSummary{Workspace: ws}

	projects, err := src.Projects(ctx, ws)
	if err != nil {
		return summary, err
	}
	for _, p := range projects {
		tasks, err := src.Tasks(ctx, ws, p)
		if err != nil {
			return summary, err
		}
		summary.Projects = append(summary.Projects, ProjectSummary{Project: p, Tasks: tasks})
	}

	if summary.Tags, err = src.Tags(ctx, ws); err != nil {
		return summary, err
	}
	if summary.Entries, err = src.TimeEntries(ctx, ws, user); err != nil {
		return summary, err
	}
	if summary.Clients, err = src.Clients(ctx, ws); err != nil {
		return summary, err
	}
	return summary, nil
}

// RenderSummary prints the nested workspace overview.
func RenderSummary(summaries []WorkspaceSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("List of all workspaces"))
	b.WriteString("\n")

	for _, s := range summaries {
		b.WriteString(workspaceStyle.Render("* "+s.Workspace.Name) + " " + Dim(s.Workspace.ID) + "\n")

		b.WriteString(" " + Heading("Projects:") + "\n")
		for _, p := range s.Projects {
			fmt.Fprintf(&b, "  * %s %s\n", p.Project.Name, Dim("hours: "+FormatHours(p.Project.Duration)))
			for _, t := range p.Tasks {
				fmt.Fprintf(&b, "    * %s: %s\n", t.Name, renderTaskStatus(t.Status))
			}
		}

		b.WriteString(" " + Heading("Tags:") + "\n")
		for _, t := range s.Tags {
			fmt.Fprintf(&b, "  * %s\n", t.Name)
		}

		b.WriteString(" " + Heading("Entries:") + "\n")
		for _, e := range s.Entries {
			fmt.Fprintf(&b, "  * %s\n", FormatEntry(e))
		}

		b.WriteString(" " + Heading("Clients:") + "\n")
		for _, c := range s.Clients {
			fmt.Fprintf(&b, "  * %s\n", c.Name)
		}
	}

	return b.String()
}

func renderTaskStatus(s clockify.TaskStatus) string {
	if s == clockify.TaskDone {
		return doneStyle.Render(string(s))
	}
	return runningStyle.Render(string(s))
}

// FormatHours renders whole hours the way the summary reports project totals.
func FormatHours(d time.Duration) string {
	return fmt.Sprintf("%d", int(d/time.Hour))
}

// FormatEntry renders one time entry on a single line in local time.
func FormatEntry(e clockify.TimeEntry) string {
	desc := e.Description
	if desc == "" {
		desc = "(no description)"
	}
	start := e.Start.Local()
	if e.Running() {
		return fmt.Sprintf("%s  %s  %s", start.Format("2006-01-02 15:04"), runningStyle.Render("running"), desc)
	}
	return fmt.Sprintf("%s–%s  %s  %s",
		start.Format("2006-01-02 15:04"),
		e.End.Local().Format("15:04"),
		e.Duration.Round(time.Minute),
		desc,
	)
}
