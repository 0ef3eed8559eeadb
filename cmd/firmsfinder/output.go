package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/pages"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(w io.Writer, label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(w, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

func renderStatus(w io.Writer, st pages.Status) {
	if st.Error != "" {
		fmt.Fprintln(w, colorize(colorRed, st.Error))
	}
}

func renderServices(w io.Writer, snap pages.ServicesSnapshot) {
	renderStatus(w, snap.Status)
	if snap.Loaded && snap.Total == 0 {
		fmt.Fprintln(w, "No services found.")
		return
	}
	for _, s := range snap.Items {
		name := s.ServiceName
		if name == "" {
			name = colorize(colorDim, "(unnamed)")
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", colorize(colorBold, name), colorize(colorDim, s.Category), colorize(colorDim, s.ID))
	}
	renderPager(w, snap)
}

func renderPager(w io.Writer, snap pages.ServicesSnapshot) {
	if snap.TotalPages <= 1 {
		return
	}
	parts := make([]string, 0, len(snap.Window)+2)
	if snap.HasPrev {
		parts = append(parts, "‹ prev")
	}
	for _, n := range snap.Window {
		label := strconv.Itoa(n)
		if n == snap.Page {
			label = colorize(colorCyan, "["+label+"]")
		}
		parts = append(parts, label)
	}
	if snap.HasNext {
		parts = append(parts, "next ›")
	}
	fmt.Fprintf(w, "  page %d of %d  %s\n", snap.Page, snap.TotalPages, strings.Join(parts, " "))
}

func renderHome(w io.Writer, snap pages.HomeSnapshot) {
	renderStatus(w, snap.Status)
	fmt.Fprintln(w, colorize(colorBold, "Services by category"))
	if snap.Categories.Len() == 0 && snap.Error == "" {
		fmt.Fprintln(w, "  No services found.")
	} else if snap.Categories.Len() > 0 {
		printStatus(w, "Categories", "%s", strings.Join(snap.Categories.Keys(), ", "))
	}
	for _, g := range snap.Categories {
		fmt.Fprintf(w, "  <%s>\n", g.Key)
		for _, s := range g.Items {
			fmt.Fprintf(w, "    %s  %s\n", s.ServiceName, colorize(colorDim, "/services/"+s.ID))
		}
	}
	fmt.Fprintln(w, colorize(colorBold, "Latest blogs"))
	for _, b := range snap.Blogs {
		fmt.Fprintf(w, "  %s  %s\n", b.Text, colorize(colorDim, "/blogs/"+b.ID))
	}
	renderFAQs(w, snap.FAQs)
}

func renderFAQs(w io.Writer, faqs []directory.FAQ) {
	fmt.Fprintln(w, colorize(colorBold, "FAQs"))
	if len(faqs) == 0 {
		fmt.Fprintln(w, "  No FAQs match your search.")
	}
	for _, f := range faqs {
		fmt.Fprintf(w, "  Q: %s\n     %s\n", f.Question, f.Answer)
	}
}

func renderBlogs(w io.Writer, snap pages.ListingSnapshot[directory.Blog]) {
	renderStatus(w, snap.Status)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "No blogs found.")
	}
	for _, b := range snap.Items {
		fmt.Fprintf(w, "  %s  %s  %s\n", colorize(colorBold, b.Text), colorize(colorDim, b.CategoryName()), colorize(colorDim, "/blogs/"+b.ID))
		fmt.Fprintf(w, "    %s\n", excerpt(directory.PlainText(b.Description), 50))
	}
}

func renderInterviews(w io.Writer, snap pages.ListingSnapshot[directory.Interview]) {
	renderStatus(w, snap.Status)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "No interviews found.")
	}
	for _, iv := range snap.Items {
		fmt.Fprintf(w, "  %s, %s at %s  %s  %s\n", colorize(colorBold, iv.Name), iv.Position, iv.Company,
			colorize(colorDim, iv.InterviewDate), colorize(colorDim, "/interviews/"+iv.ID))
	}
}

func renderNotFound(w io.Writer, kind, back string) {
	fmt.Fprintf(w, "%s\n", colorize(colorYellow, "Oops! "+kind+" Not Found"))
	fmt.Fprintf(w, "  The %s you are looking for does not exist or has been moved. Back to %s\n", strings.ToLower(kind), back)
}

func renderService(w io.Writer, s directory.Service, imageURL string) {
	fmt.Fprintln(w, colorize(colorBold, s.ServiceName))
	printStatus(w, "Category", "%s", s.Category)
	if imageURL != "" {
		printStatus(w, "Image", "%s", imageURL)
	}
	fmt.Fprintf(w, "\n%s\n", directory.PlainText(s.Description))
}

func renderBlog(w io.Writer, b directory.Blog) {
	fmt.Fprintln(w, colorize(colorBold, b.Text))
	if name := b.CategoryName(); name != "" {
		printStatus(w, "Category", "%s", name)
	}
	if len(b.Tags) > 0 {
		names := make([]string, len(b.Tags))
		for i, t := range b.Tags {
			names[i] = t.Name
		}
		printStatus(w, "Tags", "%s", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "\n%s\n", directory.PlainText(b.Description))
}

func renderInterview(w io.Writer, iv directory.Interview) {
	fmt.Fprintln(w, colorize(colorBold, iv.Name))
	printStatus(w, "Position", "%s", iv.Position)
	printStatus(w, "Company", "%s", iv.Company)
	if iv.CompanyURL != "" {
		printStatus(w, "Website", "%s", iv.CompanyURL)
	}
	printStatus(w, "Date", "%s", iv.InterviewDate)
	fmt.Fprintf(w, "\n%s\n", directory.PlainText(iv.Description))
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
