package stenprot

import (
	"regexp"
	"strings"

	"snemovna-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Speech is one (author, text) pair pulled out of a stenoprotocol
// page. Authors keep their role prefix, "Poslanec Andrej Babiš".
type Speech struct {
	Author string
	Text   string
}

// a paragraph opening with a role title, a name and a colon starts a
// new speech even without an author anchor
var speakerLabelRegex = regexp.MustCompile(
	`^(Místopředseda PSP|Předseda PSP|Poslanec|Poslankyně|Ministr|Ministryně|Zpravodaj|Zpravodajka|Předsedající|Místopředsedkyně PSP) ([^:]+?) ?: ?`,
)

// "(pokračuje Andrej Babiš)" continuation markers on pages that carry
// no author anchors at all
var continuationRegex = regexp.MustCompile(`(?i)\(pokra[čc]uje:? ([^)]+)\)`)

// ExtractSpeeches pulls the speeches out of one stenoprotocol page.
// Author anchors (<b><a>) open a speech whose text accumulates from
// the following paragraphs, paragraphs that open with a speaker label
// become their own speech, and pages holding only a continuation
// marker fall back to the marker's author.
func ExtractSpeeches(htmlContent string) ([]Speech, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	root := doc.Find("div#main-content")
	var rootNodes []*html.Node
	if root.Length() > 0 {
		rootNodes = root.Nodes
	} else {
		// fallback: the whole document
		rootNodes = doc.Selection.Nodes
	}

	var nodes []*html.Node
	for _, n := range rootNodes {
		nodes = append(nodes, descendants(n)...)
	}

	speeches := extractFromNodes(nodes)
	if len(speeches) == 0 {
		speeches = extractContinuation(nodes)
	}
	return speeches, nil
}

func extractFromNodes(nodes []*html.Node) []Speech {
	var speeches []Speech

	appendLabeled := func(text string) bool {
		m := speakerLabelRegex.FindStringSubmatch(text)
		if m == nil {
			return false
		}
		rest := strings.TrimSpace(text[len(m[0]):])
		if rest != "" {
			speeches = append(speeches, Speech{
				Author: m[1] + " " + m[2],
				Text:   rest,
			})
		}
		return true
	}

	i := 0
	for i < len(nodes) {
		node := nodes[i]

		if !isAuthorAnchor(node) {
			if isElement(node, "p") {
				appendLabeled(htmlutil.CleanText(node))
			}
			i++
			continue
		}

		author := htmlutil.CleanText(findChildElement(node, "a"))
		var parts []string
		j := i + 1
		for j < len(nodes) {
			n := nodes[j]
			if isAuthorAnchor(n) {
				break
			}
			if isElement(n, "p") {
				text := htmlutil.CleanText(n)
				if text != "" && !appendLabeled(text) {
					parts = append(parts, text)
				}
			}
			j++
		}
		if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
			speeches = append(speeches, Speech{Author: author, Text: text})
		}
		i = j
	}

	return speeches
}

// handles pages that only carry a "(pokračuje X)" marker, the speech
// continues from the previous page
func extractContinuation(nodes []*html.Node) []Speech {
	for idx, node := range nodes {
		if node.Type != html.TextNode {
			continue
		}
		m := continuationRegex.FindStringSubmatch(node.Data)
		if m == nil {
			continue
		}

		author := strings.TrimSpace(m[1])
		var parts []string
		for _, n := range nodes[idx+1:] {
			if isElement(n, "p") {
				if text := htmlutil.CleanText(n); text != "" {
					parts = append(parts, text)
				}
				continue
			}
			if n.Type == html.TextNode && continuationRegex.MatchString(n.Data) {
				break
			}
			if isElement(n, "div") && hasClass(n, "document-nav") {
				break
			}
		}

		text := strings.TrimSpace(strings.Join(parts, " "))
		if text == "" {
			return nil
		}
		return []Speech{{Author: author, Text: text}}
	}
	return nil
}

// pre-order walk, the node itself excluded
func descendants(n *html.Node) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, child)
		out = append(out, descendants(child)...)
	}
	return out
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// <b> wrapping an <a> marks the author of the speech that follows
func isAuthorAnchor(n *html.Node) bool {
	return isElement(n, "b") && findChildElement(n, "a") != nil
}

func findChildElement(n *html.Node, tag string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if isElement(child, tag) {
			return child
		}
		if found := findChildElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
