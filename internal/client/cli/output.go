package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printUsers(w io.Writer, list []models.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ADDRESS\tROLE\tUSERNAME")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Address, u.Role, u.Username)
	}
	return tw.Flush()
}

func assigneeText(t *models.Task) string {
	if !t.HasAssignee() {
		return "-"
	}
	return t.Assignee.String()
}

func printTasks(w io.Writer, list []models.Task) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tREWARD\tASSIGNEE\tTITLE")
	for i := range list {
		t := &list[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Reward, assigneeText(t), t.Title)
	}
	return tw.Flush()
}

func printTask(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "id:          %d\n", t.ID)
	fmt.Fprintf(w, "title:       %s\n", t.Title)
	fmt.Fprintf(w, "description: %s\n", t.Description)
	fmt.Fprintf(w, "status:      %s\n", t.Status)
	fmt.Fprintf(w, "assignee:    %s\n", assigneeText(t))
	fmt.Fprintf(w, "reward:      %s\n", t.Reward)
}

func printEvents(w io.Writer, list []models.Event) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SEQ\tEVENT\tARGS\tHASH")
	for i := range list {
		e := &list[i]
		argText := "<undecodable>"
		if args, err := e.Args(); err == nil {
			argText = fmt.Sprint(args)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%x\n", e.Seq, e.Name, argText, shortHash(e.Hash))
	}
	return tw.Flush()
}

func shortHash(h []byte) []byte {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
