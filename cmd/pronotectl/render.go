package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// bannerStyle maps the urgency color sent by the server to a terminal style.
func bannerStyle(color string) lipgloss.Style {
	switch color {
	case "red":
		return criticalStyle
	case "orange":
		return warningStyle
	default:
		return dimStyle
	}
}

func banner(u *pronotev1.Urgency) string {
	if u == nil || u.Level == "" || u.Level == "none" {
		return ""
	}
	return bannerStyle(u.Color).Render(u.Message)
}

func displayName(u *pronotev1.User) string {
	if u == nil {
		return "unknown user"
	}
	return fmt.Sprintf("%s %s <%s>", u.FirstName, u.LastName, u.Email)
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

func renderUsers(w io.Writer, users []*pronotev1.User) {
	for _, u := range users {
		fmt.Fprintf(w, "%s  %s  %s\n", dimStyle.Render(u.ID), displayName(u), u.Job)
	}
}

func taskBody(t *pronotev1.Task) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Name))
	status := statusName(t.Status)
	if t.StatusManual {
		status += " (manual)"
	}
	fmt.Fprintf(&b, "\n%s  %s\n", dimStyle.Render(t.ID), status)
	if t.Description != "" {
		b.WriteString(t.Description + "\n")
	}
	fmt.Fprintf(&b, "deadline: %s\n", t.Deadline)
	for _, st := range t.SubTasks {
		mark := "[ ]"
		if st.Done == 1 {
			mark = doneStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, st.Name, dimStyle.Render(st.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTask(w io.Writer, t *pronotev1.Task) {
	fmt.Fprintln(w, cardStyle.Render(taskBody(t)))
}

func renderView(w io.Writer, v *pronotev1.TaskView) {
	body := taskBody(v.Task)
	switch {
	case !v.DeadlineValid:
		body += "\n" + dimStyle.Render("deadline not set")
	case v.Overdue:
		body += "\n" + criticalStyle.Render(fmt.Sprintf("overdue by %d day(s)", -v.DaysRemaining))
	default:
		body += fmt.Sprintf("\n%d day(s) left", v.DaysRemaining)
	}
	if b := banner(v.Urgency); b != "" {
		body += "\n" + b
	}
	fmt.Fprintln(w, cardStyle.Render(body))
}

func renderDashboard(w io.Writer, d *pronotev1.DashboardResponse) {
	fmt.Fprintln(w, sectionStyle.Render("Assigned to you")+" "+dimStyle.Render(d.Now))
	if len(d.Tasks) == 0 {
		fmt.Fprintln(w, "Nothing assigned.")
		return
	}
	for _, v := range d.Tasks {
		renderView(w, v)
	}
}

func renderHistory(w io.Writer, h *pronotev1.HistoryResponse) {
	sections := []struct {
		title string
		views []*pronotev1.TaskView
	}{
		{"Not done", h.NotDone},
		{"In progress", h.InProgress},
		{"Completed", h.Completed},
		{"Failed to do", h.FailedToDo},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "%s (%d)\n", sectionStyle.Render(s.title), len(s.views))
		for _, v := range s.views {
			renderView(w, v)
		}
	}
}

func renderConversation(w io.Writer, msgs []*pronotev1.Message, me string) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages.")
		return
	}
	for _, m := range msgs {
		who := "them"
		if m.SenderID == me {
			who = "you"
		}
		fmt.Fprintf(w, "%s %s: %s\n", dimStyle.Render(m.SentAt), who, m.Content)
	}
}
