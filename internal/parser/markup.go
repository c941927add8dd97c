// Package parser converts Kanka rich-text markup into plain narrative text
// and resolves inline entity mentions.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// boilerplateHost marks instructional links injected by the Kanka export.
const boilerplateHost = "app.kanka.io"

// Normalize converts an HTML markup body into formatted plain text.
//
// Paragraphs become lines, unordered lists become "- " items followed by a
// blank line, headings and bold text become standalone lines, and italic text
// is rendered as "> " quoted lines. Recognized elements are emitted in
// document order, so an element nested in another recognized element is
// emitted by both. When no recognized element is present the tag-free text
// is returned instead.
func Normalize(markup string) string {
	if markup == "" {
		return ""
	}

	doc, err := parseFragment(markup)
	if err != nil {
		// html.ParseFragment only fails on reader errors; a strings.Reader never errors.
		return markup
	}

	stripBoilerplate(doc)

	var parts []string
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "p":
			parts = append(parts, strings.TrimSpace(s.Text())+"\n")
		case "ul":
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				parts = append(parts, "- "+strings.TrimSpace(li.Text())+"\n")
			})
			parts = append(parts, "\n")
		case "h3", "h4", "b", "strong":
			parts = append(parts, strings.TrimSpace(s.Text())+"\n")
		case "i", "em":
			parts = append(parts, quoteLines(s.Text())+"\n")
		}
	})

	if len(parts) == 0 {
		return doc.Text()
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// parseFragment parses markup as the contents of a <body> element. Markup
// bodies are fragments, so no document scaffolding is synthesized and text
// before the first tag keeps its leading whitespace.
func parseFragment(markup string) (*goquery.Document, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyNode())
	if err != nil {
		return nil, err
	}
	root := bodyNode()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}

func bodyNode() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// stripBoilerplate removes every paragraph holding a "click here" link back
// to the Kanka app.
func stripBoilerplate(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, boilerplateHost) {
			return
		}
		if !strings.Contains(strings.ToLower(a.Text()), "click here") {
			return
		}
		a.Closest("p").Remove()
	})
}

// quoteLines prefixes each line with "> ".
func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
