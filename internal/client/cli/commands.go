package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type options map[string]any

type command struct {
	name  string
	args  []string
	help  string
	flags func(fs *pflag.FlagSet) options
	run   func(ctx context.Context, a *App, args []string, opts options) error
}

func (c command) argsUsage() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = "<" + a + ">"
	}
	return strings.Join(parts, " ")
}

func noFlags(*pflag.FlagSet) options { return nil }

var commands []command

func init() {
	commands = []command{
		{name: "ping", help: "check the server is reachable", flags: noFlags, run: cmdPing},
		{name: "add-user", args: []string{"address", "role"}, help: "add a member (viewer|assignee|maintainer)", flags: noFlags, run: cmdAddUser},
		{name: "remove-user", args: []string{"address"}, help: "remove a member", flags: noFlags, run: cmdRemoveUser},
		{name: "change-role", args: []string{"address", "role"}, help: "change a member's role", flags: noFlags, run: cmdChangeRole},
		{name: "set-username", args: []string{"name"}, help: "set your own display name", flags: noFlags, run: cmdSetUsername},
		{name: "user", args: []string{"address"}, help: "show a member", flags: noFlags, run: cmdGetUser},
		{name: "role", args: []string{"address"}, help: "show the role of an address", flags: noFlags, run: cmdGetRole},
		{name: "has-user", args: []string{"address"}, help: "report whether an address is a member", flags: noFlags, run: cmdHasUser},
		{name: "users", help: "list members in insertion order", flags: noFlags, run: cmdUsers},
		{name: "create-task", args: []string{"title"}, help: "create a task", flags: descriptionFlag, run: cmdCreateTask},
		{name: "assign", args: []string{"task-id", "address"}, help: "set a task's assignee", flags: noFlags, run: cmdAssign},
		{name: "status", args: []string{"task-id", "status"}, help: "move a task (backlog|in_progress|validate)", flags: noFlags, run: cmdStatus},
		{name: "deposit", args: []string{"task-id", "amount"}, help: "add reward in base units", flags: noFlags, run: cmdDeposit},
		{name: "complete", args: []string{"task-id"}, help: "pay out and close a validated task", flags: noFlags, run: cmdComplete},
		{name: "task", args: []string{"task-id"}, help: "show a task", flags: noFlags, run: cmdTask},
		{name: "tasks", help: "list tasks", flags: noFlags, run: cmdTasks},
		{name: "balance", args: []string{"address"}, help: "show credited balance", flags: noFlags, run: cmdBalance},
		{name: "events", help: "list notifications", flags: eventFlags, run: cmdEvents},
		{name: "verify", help: "verify the notification hash chain", flags: noFlags, run: cmdVerify},
		{name: "snapshot", help: "export a ledger snapshot to object storage", flags: snapshotFlags, run: cmdSnapshot},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printCommands(w io.Writer) {
	for _, c := range commands {
		fmt.Fprintf(w, "  %-13s %-22s %s\n", c.name, c.argsUsage(), c.help)
	}
	fmt.Fprintf(w, "  %-13s %-22s %s\n", "token", "<address>", "mint an access token (reads the secret)")
	fmt.Fprintf(w, "  %-13s %-22s %s\n", "shell", "", "interactive mode")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: task id %q is not a number", ErrUsage, s)
	}
	return id, nil
}

func cmdPing(ctx context.Context, a *App, _ []string, _ options) error {
	if err := a.ledger.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func cmdAddUser(ctx context.Context, a *App, args []string, _ options) error {
	role, err := models.ParseRole(args[1])
	if err != nil {
		return err
	}
	return a.ledger.AddUser(ctx, args[0], role)
}

func cmdRemoveUser(ctx context.Context, a *App, args []string, _ options) error {
	return a.ledger.RemoveUser(ctx, args[0])
}

func cmdChangeRole(ctx context.Context, a *App, args []string, _ options) error {
	role, err := models.ParseRole(args[1])
	if err != nil {
		return err
	}
	return a.ledger.ChangeRole(ctx, args[0], role)
}

func cmdSetUsername(ctx context.Context, a *App, args []string, _ options) error {
	return a.ledger.SetUsername(ctx, args[0])
}

func cmdGetUser(ctx context.Context, a *App, args []string, _ options) error {
	u, err := a.ledger.GetUser(ctx, args[0])
	if err != nil {
		return err
	}
	return printUsers(a.out, []models.User{*u})
}

func cmdGetRole(ctx context.Context, a *App, args []string, _ options) error {
	role, err := a.ledger.GetRole(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, role)
	return nil
}

func cmdHasUser(ctx context.Context, a *App, args []string, _ options) error {
	ok, err := a.ledger.HasUser(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ok)
	return nil
}

func cmdUsers(ctx context.Context, a *App, _ []string, _ options) error {
	list, err := a.ledger.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	return printUsers(a.out, list)
}

func descriptionFlag(fs *pflag.FlagSet) options {
	return options{"description": fs.StringP("description", "d", "", "task description")}
}

func cmdCreateTask(ctx context.Context, a *App, args []string, opts options) error {
	task, err := a.ledger.CreateTask(ctx, args[0], *opts["description"].(*string))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created task %d\n", task.ID)
	return nil
}

func cmdAssign(ctx context.Context, a *App, args []string, _ options) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.ledger.SetAssignee(ctx, id, args[1])
}

func cmdStatus(ctx context.Context, a *App, args []string, _ options) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return a.ledger.UpdateTaskStatus(ctx, id, st)
}

func cmdDeposit(ctx context.Context, a *App, args []string, _ options) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.ledger.DepositETH(ctx, id, args[1])
}

func cmdComplete(ctx context.Context, a *App, args []string, _ options) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.ledger.CompleteTask(ctx, id)
}

func cmdTask(ctx context.Context, a *App, args []string, _ options) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	task, err := a.ledger.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}
	printTask(a.out, task)
	return nil
}

func cmdTasks(ctx context.Context, a *App, _ []string, _ options) error {
	list, err := a.ledger.GetAllTasks(ctx)
	if err != nil {
		return err
	}
	return printTasks(a.out, list)
}

func cmdBalance(ctx context.Context, a *App, args []string, _ options) error {
	addr, amount, err := a.ledger.GetBalance(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", addr, amount)
	return nil
}

func eventFlags(fs *pflag.FlagSet) options {
	return options{
		"after": fs.Int64("after", 0, "only events with a greater sequence number"),
		"limit": fs.Int("limit", 0, "page size (server default when 0)"),
	}
}

func cmdEvents(ctx context.Context, a *App, _ []string, opts options) error {
	list, err := a.ledger.ListEvents(ctx, *opts["after"].(*int64), *opts["limit"].(*int))
	if err != nil {
		return err
	}
	return printEvents(a.out, list)
}

func cmdVerify(ctx context.Context, a *App, _ []string, _ options) error {
	r, err := a.ledger.VerifyEvents(ctx)
	if err != nil {
		return err
	}
	if r.BrokenAt != 0 {
		fmt.Fprintf(a.out, "chain BROKEN at seq %d (%d events checked)\n", r.BrokenAt, r.Count)
		return nil
	}
	fmt.Fprintf(a.out, "chain ok: %d events, head %d %x\n", r.Count, r.HeadSeq, r.HeadHash)
	return nil
}

func snapshotFlags(fs *pflag.FlagSet) options {
	return options{
		"out": fs.StringP("out", "o", "", "download the snapshot to this file"),
	}
}

func cmdSnapshot(ctx context.Context, a *App, _ []string, opts options) error {
	ref, err := a.ledger.ExportSnapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "key:       %s\ndigest:    %s\nsize:      %d\nevent_seq: %d\n", ref.Key, ref.Digest, ref.Size, ref.EventSeq)
	if ref.URL != "" {
		fmt.Fprintf(a.out, "url:       %s\n", ref.URL)
	}

	out := *opts["out"].(*string)
	if out == "" {
		return nil
	}
	if ref.URL == "" {
		return fmt.Errorf("snapshot store returned no download url")
	}
	return a.saveSnapshot(ctx, ref, out)
}
