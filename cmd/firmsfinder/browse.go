package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/firmsfinder/internal/query"
	"github.com/kalambet/firmsfinder/internal/routes"
)

var browseCmd = &cobra.Command{
	Use:   "browse [path]",
	Short: "Browse the directory interactively",
	Long: `Browse the directory interactively.

Typing text searches the current page once you stop typing. Lines starting
with ':' are commands:

  :go <path>        open a route, e.g. :go /allservices?search=tax
  :back             return to the previous route
  :find <text>      search immediately
  :page <n>         jump to a page of all services
  :next, :prev      move between pages
  :login <email> <password>
  :logout
  :quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := "/"
		if len(args) == 1 {
			start = args[0]
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runBrowse(ctx, a, os.Stdin, os.Stdout, start)
		})
	},
}

// browser is one interactive session: an address bar, the search box bound
// to it and the views that render each route.
type browser struct {
	app     *app
	w       io.Writer
	history *query.History
	search  *query.Synchronizer
	commits chan query.State
}

func runBrowse(ctx context.Context, a *app, r io.Reader, w io.Writer, start string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loc, err := query.ParseLocation(start)
	if err != nil {
		return fmt.Errorf("invalid start path %q: %w", start, err)
	}
	b := &browser{
		app:     a,
		w:       w,
		history: query.NewHistory(loc),
		commits: make(chan query.State, 1),
	}
	b.search = query.NewSynchronizer(b.history, a.cfg.DebounceDelay(), query.WithOnCommit(func(st query.State) {
		select {
		case b.commits <- st:
		default:
		}
	}))
	defer b.search.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	b.render(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.commits:
			b.render(ctx)
		case line, ok := <-lines:
			if !ok {
				// Input ended mid-typing: commit what was typed.
				if b.search.Pending() {
					b.search.Submit()
					b.drainCommits()
					b.render(ctx)
				}
				return nil
			}
			if quit := b.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle runs one input line and reports whether the session should end.
func (b *browser) handle(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, ":") {
		b.search.Input(line)
		return false
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "go":
		loc, err := query.ParseLocation(arg)
		if err != nil {
			fmt.Fprintf(b.w, "Invalid path %q\n", arg)
			return false
		}
		b.search.Navigate(func() { b.history.Push(loc) })
	case "back":
		if b.history.Len() == 1 {
			fmt.Fprintln(b.w, "Nothing to go back to.")
			return false
		}
		b.search.Navigate(func() { b.history.Back() })
	case "find":
		b.search.Input(arg)
		b.search.Submit()
		b.drainCommits()
	case "page", "next", "prev":
		if !b.turnPage(cmd, arg) {
			return false
		}
	case "login":
		email, password, _ := strings.Cut(arg, " ")
		if err := runLogin(ctx, b.app, email, password); err != nil {
			fmt.Fprintln(b.w, colorize(colorRed, err.Error()))
			return false
		}
	case "logout":
		if err := b.app.auth.Logout(ctx); err != nil {
			fmt.Fprintln(b.w, colorize(colorRed, err.Error()))
			return false
		}
	default:
		fmt.Fprintf(b.w, "Unknown command :%s\n", cmd)
		return false
	}
	b.render(ctx)
	return false
}

func (b *browser) drainCommits() {
	select {
	case <-b.commits:
	default:
	}
}

func (b *browser) turnPage(cmd, arg string) bool {
	if routes.Resolve(b.history.Location().Path, b.app.sessions.State().Status()).Route != routes.AllServices {
		fmt.Fprintln(b.w, "Paging is only available on /allservices.")
		return false
	}
	v := b.app.views.Services
	var err error
	switch cmd {
	case "next":
		err = v.Next()
	case "prev":
		err = v.Prev()
	default:
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			fmt.Fprintf(b.w, "Invalid page %q\n", arg)
			return false
		}
		err = v.GoTo(n)
	}
	if err != nil {
		fmt.Fprintln(b.w, colorize(colorYellow, err.Error()))
		return false
	}
	b.search.SetPage(v.Snapshot().Page)
	return true
}

// render shows the current location, following guard redirects.
func (b *browser) render(ctx context.Context) {
	for range 2 {
		loc := b.history.Location()
		d := routes.Resolve(loc.Path, b.app.sessions.State().Status())
		switch d.Action {
		case routes.Pending:
			fmt.Fprintln(b.w, "Checking login status...")
			return
		case routes.Redirect:
			fmt.Fprintln(b.w, colorize(colorDim, fmt.Sprintf("redirected %s -> %s", loc.Path, d.Target)))
			b.search.Navigate(func() { b.history.Replace(query.Location{Path: d.Target}) })
			continue
		}
		fmt.Fprintln(b.w, colorize(colorCyan, "── "+loc.String()))
		b.show(ctx, d)
		return
	}
}

func (b *browser) show(ctx context.Context, d routes.Decision) {
	st := b.search.State()
	v := b.app.views
	var err error
	switch d.Route {
	case routes.Home:
		_ = v.Home.Load(ctx, st.Committed)
		renderHome(b.w, v.Home.Snapshot())
	case routes.AllServices:
		_ = v.Services.Ensure(ctx, st.Committed)
		if st.Page > 1 {
			_ = v.Services.GoTo(st.Page)
		}
		renderServices(b.w, v.Services.Snapshot())
	case routes.Blogs:
		v.Blogs.SetQuery(st.Committed)
		_ = v.Blogs.Load(ctx)
		renderBlogs(b.w, v.Blogs.Snapshot())
	case routes.Interviews:
		v.Interviews.SetQuery(st.Committed)
		_ = v.Interviews.Load(ctx)
		renderInterviews(b.w, v.Interviews.Snapshot())
	case routes.ServiceDetail:
		err = runShow(ctx, b.app, b.w, "service", d.Params["id"])
	case routes.BlogDetail:
		err = runShow(ctx, b.app, b.w, "blog", d.Params["id"])
	case routes.InterviewDetail:
		err = runShow(ctx, b.app, b.w, "interview", d.Params["id"])
	case routes.Login:
		fmt.Fprintln(b.w, "Sign in with :login <email> <password>")
	case routes.Signup:
		fmt.Fprintln(b.w, "Create an account with `firmsfinder signup`, then :login")
	}
	if err != nil {
		fmt.Fprintln(b.w, colorize(colorRed, err.Error()))
	}
}
