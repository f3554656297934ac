package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) prompt(ctx context.Context) string {
	s := a.modeLabel()
	if name, err := a.authService.Username(ctx); err == nil && name != "" {
		s = name + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Root runs the command loop until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Arogya CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("arogya %s> ", a.prompt(ctx))
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: login, logout, whoami, events, event <id>, addevent <name> [keys...],")
			fmt.Println("  append <id>, appointments, vitals <appointment-id>, addvitals <appointment-id>,")
			fmt.Println("  analyze <url>, pending, sync, status, exit")
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami(ctx)
		case "events":
			a.listEvents(ctx)
		case "event":
			if len(args) == 0 {
				fmt.Println("Usage: event <id>")
				continue
			}
			a.showEvent(ctx, args[0])
		case "addevent":
			if len(args) == 0 {
				fmt.Println("Usage: addevent <name> [keys...]")
				continue
			}
			a.addEvent(ctx, args[0], args[1:])
		case "append":
			if len(args) == 0 {
				fmt.Println("Usage: append <event-id>")
				continue
			}
			a.appendEvent(ctx, args[0])
		case "appointments":
			a.listAppointments(ctx)
		case "vitals":
			if len(args) == 0 {
				fmt.Println("Usage: vitals <appointment-id>")
				continue
			}
			a.showVitals(ctx, args[0])
		case "addvitals":
			if len(args) == 0 {
				fmt.Println("Usage: addvitals <appointment-id>")
				continue
			}
			a.addVitals(ctx, args[0])
		case "analyze":
			if len(args) == 0 {
				fmt.Println("Usage: analyze <document-url>")
				continue
			}
			a.analyze(ctx, args[0])
		case "pending":
			a.pending(ctx)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
