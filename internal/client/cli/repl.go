package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// shell reads commands line by line until EOF, "exit" or "quit". Errors are
// printed and the loop goes on.
func (a *App) shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "TaskLedger shell (type 'help' for commands)")
	for {
		line, err := GetSimpleText(a.in, "ledger", a.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		case "help":
			printCommands(a.out)
			continue
		case "shell", "token":
			fmt.Fprintf(a.out, "%s is not available in the shell\n", parts[0])
			continue
		}

		if err := a.Exec(ctx, parts); err != nil {
			fmt.Fprintln(a.out, "error:", err)
		}
	}
}
