package directory

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const dateNotAvailable = "Not available"

// PlainText returns the text content of an HTML fragment. Markup that fails
// to parse is returned as is.
func PlainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// FormatInterviewDate turns YYYY-MM-DD into DD/MM/YYYY. Other non-empty
// values pass through unchanged.
func FormatInterviewDate(raw string) string {
	if raw == "" {
		return dateNotAvailable
	}
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return raw
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

func (c *Client) interviewImageURL(name string) string {
	return c.baseURL + "/uploads/interviews/" + name
}

// ServiceImageURL returns the absolute URL of a service image.
func (c *Client) ServiceImageURL(name string) string {
	if name == "" {
		return ""
	}
	return c.baseURL + "/uploads/services/" + name
}

// listingInterview maps a record for list views: searchable plain-text
// description.
func (c *Client) listingInterview(r interviewRecord) Interview {
	iv := c.detailInterview(r)
	iv.Description = PlainText(r.Description)
	return iv
}

// detailInterview keeps the description as HTML.
func (c *Client) detailInterview(r interviewRecord) Interview {
	return Interview{
		ID:            r.ID,
		Name:          r.Name,
		Position:      r.Position,
		Company:       r.CompanyName,
		Image:         c.interviewImageURL(r.Image),
		Description:   r.Description,
		CompanyURL:    r.CompanyURL,
		InterviewDate: FormatInterviewDate(r.Date),
	}
}
