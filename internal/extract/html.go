package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// LinesFromHTML recovers record lines from an HTML page.
// When the page has <pre> blocks only their text is used; otherwise all visible
// text is used. Either way line breaks in text nodes are preserved.
func LinesFromHTML(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var pre strings.Builder
	collectPre(doc, &pre)

	text := pre.String()
	if strings.TrimSpace(text) == "" {
		text = extractVisibleText(doc)
	}

	return strings.Split(text, "\n"), nil
}

// collectPre appends the text of every <pre> element, one block after another
func collectPre(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && n.Data == "pre" {
		buf.WriteString(extractVisibleText(n))
		buf.WriteString("\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectPre(c, buf)
	}
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles.
// Block elements and <br> start a new line.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
