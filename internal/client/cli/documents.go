package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/folio/internal/client/client"
)

var errUsage = errors.New("wrong arguments")

// summaryFields are tried in order to label a document in listings.
var summaryFields = []string{"title", "name", "achievement", "paymentId", "text"}

func summary(d client.Document) string {
	for _, f := range summaryFields {
		if s, ok := d[f].(string); ok && s != "" {
			if len([]rune(s)) > 60 {
				s = string([]rune(s)[:60]) + "..."
			}
			return s
		}
	}
	return ""
}

func (a *App) List(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		fmt.Fprintln(a.out, "Usage: list <collection> [orderBy] [asc|desc]")
		return errUsage
	}
	var orderBy, dir string
	if len(args) > 1 {
		orderBy = args[1]
	}
	if len(args) > 2 {
		dir = args[2]
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	docs, err := a.api.List(ctx, args[0], orderBy, dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(a.out, "%v\t%v\t%s\n", d["id"], d["createdAt"], summary(d))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: show <collection> <id>")
		return errUsage
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	d, err := a.api.Get(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "%s: %s\n", k, strings.TrimSpace(fmt.Sprint(d[k])))
	}
	return nil
}

// Delete removes a document after the user confirms.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: delete <collection> <id>")
		return errUsage
	}
	ok, err := confirm(a.reader, fmt.Sprintf("Delete %s/%s?", args[0], args[1]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.api.Delete(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
