package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Delete(ctx context.Context, clipID string) error
	Copy(ctx context.Context, clipID string) error
	Devices(ctx context.Context) error
	Rename(ctx context.Context, deviceID, label string) error
	RemoveDevice(ctx context.Context, deviceID string) error
	Clear(ctx context.Context) error
}

// Run starts the interactive loop on the app's input and output.
func Run(ctx context.Context, a *App) {
	runREPL(ctx, a, a.status, a.reader, a.out)
}

// runREPL reads one command per line and dispatches it until EOF, "exit" or
// ctx cancellation. Command errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(w, "clipsync [%s] > ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				fmt.Fprintln(w, "Available commands: register, login, exit")
			case "register":
				_ = a.Register(ctx)
			case "login":
				_ = a.Login(ctx)
			case "exit", "quit":
				fmt.Fprintln(w, "Bye!")
				return
			default:
				fmt.Fprintln(w, "Please login first. Type help for commands.")
			}
			continue
		}

		switch cmd {
		case "help":
			fmt.Fprintln(w, "Available commands: (l)ist, refresh, delete <id>, copy <id>, devices, rename <device_id> <label>, remove <device_id>, clear, exit")
		case "l", "list":
			_ = a.List(ctx)
		case "r", "refresh":
			_ = a.Refresh(ctx)
		case "delete":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: delete <clip_id>")
				continue
			}
			_ = a.Delete(ctx, args[0])
		case "copy":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: copy <clip_id>")
				continue
			}
			_ = a.Copy(ctx, args[0])
		case "devices":
			_ = a.Devices(ctx)
		case "rename":
			if len(args) < 2 {
				fmt.Fprintln(w, "Usage: rename <device_id> <label>")
				continue
			}
			_ = a.Rename(ctx, args[0], strings.Join(args[1:], " "))
		case "remove":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: remove <device_id>")
				continue
			}
			_ = a.RemoveDevice(ctx, args[0])
		case "clear":
			_ = a.Clear(ctx)
		case "login":
			_ = a.Login(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
