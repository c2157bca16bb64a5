package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// shell is the authenticated REPL. Every command is a thin wrapper over the
// API client; authorization failure during any of them flips the view back
// to login via the gateway callback, which ends this loop.
func (a *App) shell(ctx context.Context) {
	fmt.Fprintf(a.out, "Logged in as %s (type 'help' for commands)\n", a.userName)

	for a.view == ViewShell && !a.quit {
		line, err := getSimpleText(a.reader, fmt.Sprintf("kelas (%s)", a.userName), a.out)
		if err != nil {
			a.quit = true
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: schedule [today], announcements [n], classes,")
			fmt.Fprintln(a.out, "  class <id>, subjects <id>, join <code>, assignments <classId>,")
			fmt.Fprintln(a.out, "  assignment <id>, submit <id> <file>, materials <subjectId>,")
			fmt.Fprintln(a.out, "  material <id>, profile, update, passwd, logout, exit")

		case "schedule":
			a.showSchedules(ctx, len(args) > 0 && args[0] == "today")

		case "announcements":
			limit := 0
			if len(args) > 0 {
				limit, _ = strconv.Atoi(args[0])
			}
			a.showAnnouncements(ctx, limit)

		case "classes":
			a.showClassrooms(ctx)

		case "class":
			if id, ok := argID(a, args, "Usage: class <id>"); ok {
				a.showClassroom(ctx, id)
			}

		case "subjects":
			if id, ok := argID(a, args, "Usage: subjects <classId>"); ok {
				a.showSubjects(ctx, id)
			}

		case "join":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: join <code>")
				continue
			}
			a.joinClass(ctx, args[0])

		case "assignments":
			if id, ok := argID(a, args, "Usage: assignments <classId>"); ok {
				a.showAssignments(ctx, id)
			}

		case "assignment":
			if id, ok := argID(a, args, "Usage: assignment <id>"); ok {
				a.showAssignment(ctx, id)
			}

		case "submit":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: submit <id> <file>")
				continue
			}
			if id, ok := argID(a, args[:1], "Usage: submit <id> <file>"); ok {
				a.submitAssignment(ctx, id, args[1])
			}

		case "materials":
			if id, ok := argID(a, args, "Usage: materials <subjectId>"); ok {
				a.showMaterials(ctx, id)
			}

		case "material":
			if id, ok := argID(a, args, "Usage: material <id>"); ok {
				a.showMaterial(ctx, id)
			}

		case "profile":
			a.showProfile(ctx)

		case "update":
			a.updateProfile(ctx)

		case "passwd":
			a.updatePassword(ctx)

		case "logout":
			a.logout(ctx)

		case "exit", "quit":
			a.quit = true

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func argID(a *App, args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	return id, true
}
