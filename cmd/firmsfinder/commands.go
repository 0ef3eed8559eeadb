package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/firmsfinder/internal/config"
	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/pages"
	"github.com/kalambet/firmsfinder/internal/routes"
)

var errLoadFailed = errors.New(pages.LoadFailedMessage)

// withApp builds the app for one command invocation.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func (a *app) loadFailed(err error) error {
	a.logger.Debug("load failed", "error", err)
	return errLoadFailed
}

// --- services ---

var servicesCmd = &cobra.Command{
	Use:   "services [query]",
	Short: "Search all services, sorted by name and paged",
	Long: `Search all services, sorted by name and paged.

Examples:
  firmsfinder services
  firmsfinder services audit --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runServices(ctx, a, os.Stdout, strings.Join(args, " "), page)
		})
	},
}

func runServices(ctx context.Context, a *app, w io.Writer, query string, page int) error {
	if err := a.allow("/allservices"); err != nil {
		return err
	}
	v := a.views.Services
	if err := v.SetQuery(ctx, strings.TrimSpace(query)); err != nil {
		return a.loadFailed(err)
	}
	if page > 1 {
		if err := v.GoTo(page); err != nil {
			return err
		}
	}
	renderServices(w, v.Snapshot())
	return nil
}

func init() {
	servicesCmd.Flags().Int("page", 1, "page to show")
}

// --- blogs, interviews, faqs ---

var blogsCmd = &cobra.Command{
	Use:   "blogs [query]",
	Short: "List blogs, optionally filtered by title",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runBlogs(ctx, a, os.Stdout, strings.Join(args, " "))
		})
	},
}

func runBlogs(ctx context.Context, a *app, w io.Writer, query string) error {
	if err := a.allow("/blogs"); err != nil {
		return err
	}
	l := a.views.Blogs
	l.SetQuery(strings.TrimSpace(query))
	if err := l.Load(ctx); err != nil {
		return a.loadFailed(err)
	}
	renderBlogs(w, l.Snapshot())
	return nil
}

var interviewsCmd = &cobra.Command{
	Use:   "interviews [query]",
	Short: "List interviews, optionally filtered by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runInterviews(ctx, a, os.Stdout, strings.Join(args, " "))
		})
	},
}

func runInterviews(ctx context.Context, a *app, w io.Writer, query string) error {
	if err := a.allow("/interviews"); err != nil {
		return err
	}
	l := a.views.Interviews
	l.SetQuery(strings.TrimSpace(query))
	if err := l.Load(ctx); err != nil {
		return a.loadFailed(err)
	}
	renderInterviews(w, l.Snapshot())
	return nil
}

var faqsCmd = &cobra.Command{
	Use:   "faqs [query]",
	Short: "List frequently asked questions, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runFAQs(ctx, a, os.Stdout, strings.Join(args, " "))
		})
	},
}

func runFAQs(ctx context.Context, a *app, w io.Writer, query string) error {
	if err := a.allow("/"); err != nil {
		return err
	}
	l := a.views.FAQs
	l.SetQuery(strings.TrimSpace(query))
	if err := l.Load(ctx); err != nil {
		return a.loadFailed(err)
	}
	snap := l.Snapshot()
	renderStatus(w, snap.Status)
	renderFAQs(w, snap.Items)
	return nil
}

// --- show ---

var showCmd = &cobra.Command{
	Use:       "show <service|blog|interview> <id>",
	Short:     "Show one service, blog or interview",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"service", "blog", "interview"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runShow(ctx, a, os.Stdout, args[0], args[1])
		})
	},
}

func runShow(ctx context.Context, a *app, w io.Writer, kind, id string) error {
	switch kind {
	case "service":
		if err := a.allow("/services/" + id); err != nil {
			return err
		}
		d := a.views.ServiceDetail.Load(ctx, id)
		if err := detailError(a, w, d.NotFound, d.Err, "Service", d.Back); err != nil || d.NotFound {
			return err
		}
		renderService(w, d.Item, a.client.ServiceImageURL(d.Item.Image))
	case "blog":
		if err := a.allow("/blogs/" + id); err != nil {
			return err
		}
		d := a.views.BlogDetail.Load(ctx, id)
		if err := detailError(a, w, d.NotFound, d.Err, "Blog", d.Back); err != nil || d.NotFound {
			return err
		}
		renderBlog(w, d.Item)
	case "interview":
		if err := a.allow("/interviews/" + id); err != nil {
			return err
		}
		d := a.views.InterviewDetail.Load(ctx, id)
		if err := detailError(a, w, d.NotFound, d.Err, "Interview", d.Back); err != nil || d.NotFound {
			return err
		}
		renderInterview(w, d.Item)
	default:
		return fmt.Errorf("unknown kind %q: want service, blog or interview", kind)
	}
	return nil
}

func detailError(a *app, w io.Writer, notFound bool, err error, kind, back string) error {
	if notFound {
		renderNotFound(w, kind, back)
		return nil
	}
	if err != nil {
		return a.loadFailed(err)
	}
	return nil
}

// --- auth ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runLogin(ctx, a, email, password)
		})
	},
}

func runLogin(ctx context.Context, a *app, email, password string) error {
	if d := routes.Resolve("/login", a.sessions.State().Status()); d.Action == routes.Redirect {
		return fmt.Errorf("already signed in as %s: run `firmsfinder logout` first", a.sessions.State().User.Email)
	}
	printStep("Signing in as %s", strings.TrimSpace(email))
	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	printSuccess("Signed in as %s", displayName(user.Name, user.Email))
	return nil
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r directory.Registration
		r.Name, _ = cmd.Flags().GetString("name")
		r.Phone, _ = cmd.Flags().GetString("phone")
		r.Email, _ = cmd.Flags().GetString("email")
		r.Password, _ = cmd.Flags().GetString("password")
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runSignup(ctx, a, r)
		})
	},
}

func runSignup(ctx context.Context, a *app, r directory.Registration) error {
	if d := routes.Resolve("/signup", a.sessions.State().Status()); d.Action == routes.Redirect {
		return errors.New("already signed in: run `firmsfinder logout` first")
	}
	printStep("Creating account for %s", strings.TrimSpace(r.Email))
	if err := a.auth.Register(ctx, r); err != nil {
		return err
	}
	printSuccess("Account created. Sign in with `firmsfinder login --email %s`", strings.TrimSpace(r.Email))
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.auth.Logout(ctx); err != nil {
				return err
			}
			printSuccess("Signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runWhoami(a, os.Stdout)
		})
	},
}

func runWhoami(a *app, w io.Writer) error {
	st := a.sessions.State()
	if st.User == nil {
		fmt.Fprintln(w, "Not signed in.")
		return nil
	}
	printStatus(w, "Name", "%s", st.User.Name)
	printStatus(w, "Email", "%s", st.User.Email)
	printStatus(w, "ID", "%s", st.User.ID)
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}

// --- review ---

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Submit a review of the directory",
	Long: `Submit a review of the directory as the signed-in user.

Ratings: Bad, Neutral, Good, Excellent.

Example:
  firmsfinder review --rating Good --feedback "Found my accountant here"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rating, _ := cmd.Flags().GetString("rating")
		feedback, _ := cmd.Flags().GetString("feedback")
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runReview(ctx, a, pages.ReviewForm{Rating: pages.Rating(rating), Feedback: feedback})
		})
	},
}

func runReview(ctx context.Context, a *app, form pages.ReviewForm) error {
	if err := a.views.Home.SubmitReview(ctx, form); err != nil {
		a.logger.Debug("review rejected", "error", err)
		return errors.New(pages.ReviewMessage(err))
	}
	printSuccess("%s", pages.ReviewMessage(nil))
	return nil
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")

	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("phone", "", "phone number")
	signupCmd.Flags().String("email", "", "account email")
	signupCmd.Flags().String("password", "", "account password")

	reviewCmd.Flags().String("rating", "", "one of Bad, Neutral, Good, Excellent")
	reviewCmd.Flags().String("feedback", "", "free-form feedback")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorDim, k.EnvVar))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
