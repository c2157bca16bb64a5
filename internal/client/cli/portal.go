package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Portal views: each fetches through the gateway and prints. On error the
// view shows its own message; a 401/403 has already evicted the session by
// the time the error surfaces here.

func (a *App) showSchedules(ctx context.Context, todayOnly bool) {
	schedules, err := a.client.Schedules(ctx, todayOnly)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load schedules."))
		return
	}
	if len(schedules) == 0 {
		fmt.Fprintln(a.out, "No classes scheduled.")
		return
	}
	for _, s := range schedules {
		fmt.Fprintf(a.out, "%-10s %s-%s  %s (%s, %s)\n", s.Day, s.StartTime, s.EndTime, s.Subject, s.Lecturer, s.Room)
	}
}

func (a *App) showAnnouncements(ctx context.Context, limit int) {
	items, err := a.client.Announcements(ctx, limit)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load announcements."))
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No announcements.")
		return
	}
	for _, an := range items {
		fmt.Fprintf(a.out, "[%d] %s  (%s)\n", an.ID, an.Title, an.CreatedAt.Format("2006-01-02"))
	}
}

func (a *App) showClassrooms(ctx context.Context) {
	classes, err := a.client.MyClassrooms(ctx)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load your classes."))
		return
	}
	if len(classes) == 0 {
		fmt.Fprintln(a.out, "You are not enrolled in any class. Try: join <code>")
		return
	}
	for _, c := range classes {
		fmt.Fprintf(a.out, "[%d] %s  (%s)\n", c.ID, c.Name, c.Lecturer)
	}
}

func (a *App) showClassroom(ctx context.Context, id int64) {
	c, err := a.client.Classroom(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load the class."))
		return
	}
	fmt.Fprintf(a.out, "%s\nLecturer: %s\nCode: %s\n", c.Name, c.Lecturer, c.Code)
}

func (a *App) showSubjects(ctx context.Context, classroomID int64) {
	subjects, err := a.client.Subjects(ctx, classroomID)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load subjects."))
		return
	}
	for _, s := range subjects {
		fmt.Fprintf(a.out, "[%d] %s\n", s.ID, s.Name)
	}
}

func (a *App) joinClass(ctx context.Context, code string) {
	c, err := a.client.JoinClass(ctx, code)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not join the class. Check the code."))
		return
	}
	fmt.Fprintf(a.out, "Joined %s.\n", c.Name)
}

func (a *App) showAssignments(ctx context.Context, classroomID int64) {
	assignments, err := a.client.Assignments(ctx, classroomID)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load assignments."))
		return
	}
	for _, as := range assignments {
		status := " "
		if as.Submitted {
			status = "x"
		}
		deadline := "-"
		if as.Deadline != nil {
			deadline = as.Deadline.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "[%s] %d  %s  (due %s)\n", status, as.ID, as.Title, deadline)
	}
}

func (a *App) showAssignment(ctx context.Context, id int64) {
	as, err := a.client.Assignment(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load the assignment."))
		return
	}
	fmt.Fprintf(a.out, "%s\n\n%s\n", as.Title, as.Description)
	if as.Deadline != nil {
		fmt.Fprintf(a.out, "\nDeadline: %s\n", as.Deadline.Format("2006-01-02 15:04"))
	}
}

func (a *App) submitAssignment(ctx context.Context, id int64, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	sub, err := a.client.SubmitAssignment(ctx, id, filepath.Base(path), f)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Submission failed."))
		return
	}
	fmt.Fprintf(a.out, "Submitted (receipt %s).\n", sub.ID)
}

func (a *App) showMaterials(ctx context.Context, subjectID int64) {
	materials, err := a.client.MaterialsBySubject(ctx, subjectID)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load materials."))
		return
	}
	for _, m := range materials {
		fmt.Fprintf(a.out, "[%d] %s\n", m.ID, m.Title)
	}
}

func (a *App) showMaterial(ctx context.Context, id int64) {
	m, err := a.client.Material(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, errorMessage(err, "Could not load the material."))
		return
	}
	fmt.Fprintf(a.out, "%s\n\n%s\n", m.Title, m.Body)
	if m.FileURL != "" {
		fmt.Fprintf(a.out, "\nAttachment: %s\n", m.FileURL)
	}
}
