// Package htmldoc provides a minimal structured-document abstraction over
// task note content. Content is parsed as a loose HTML fragment; callers can
// locate or append a marker list without disturbing the other regions of the
// document, then serialize back to text.
//
// The abstraction is deliberately small (find region, append region,
// serialize) so the rest of the system never touches the parser's node API
// directly.
package htmldoc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/notewell/curator/pkg/errors"
)

// Document is a parsed HTML fragment. The top-level nodes are kept in
// document order; serialization writes them back in the same order.
type Document struct {
	nodes []*html.Node
}

// Parse parses note content into a Document. Input is normalized to ASCII
// first: accented characters are reduced to their base letter and any rune
// still outside the ASCII range is dropped, rather than failing the parse.
func Parse(content string) (*Document, error) {
	clean, err := Normalize(content)
	if err != nil {
		return nil, errors.WrapParse("html", "note content", err)
	}

	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(clean), body)
	if err != nil {
		return nil, errors.WrapParse("html", "note content", err)
	}

	return &Document{nodes: nodes}, nil
}

// Normalize reduces content to the ASCII range: NFD decomposition, combining
// marks stripped, remaining non-ASCII runes dropped.
func Normalize(content string) (string, error) {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	clean, _, err := transform.String(t, content)
	return clean, err
}

// Regions returns the number of top-level regions in the document.
func (d *Document) Regions() int {
	n := 0
	for _, node := range d.nodes {
		if node.Type == html.ElementNode {
			n++
		}
	}
	return n
}

// FindList returns the first unordered list carrying the given class
// attribute, searching the whole tree, or nil when absent.
func (d *Document) FindList(class string) *html.Node {
	for _, node := range d.nodes {
		if found := findList(node, class); found != nil {
			return found
		}
	}
	return nil
}

// ListItems returns the text of each item in the first list carrying the
// given class attribute. Empty items (the placeholder in a fresh task) are
// skipped.
func (d *Document) ListItems(class string) []string {
	ul := d.FindList(class)
	if ul == nil {
		return nil
	}

	var items []string
	for li := ul.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		if text := strings.TrimSpace(nodeText(li)); text != "" {
			items = append(items, text)
		}
	}
	return items
}

// AppendMarker appends a list item containing text to the list carrying the
// given class attribute. When no such list exists, a new one holding the
// single item is appended at the end of the document; existing regions are
// never reordered.
func (d *Document) AppendMarker(class, text string) {
	li := &html.Node{Type: html.ElementNode, Data: "li", DataAtom: atom.Li}
	li.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	if ul := d.FindList(class); ul != nil {
		ul.AppendChild(li)
		return
	}

	ul := &html.Node{
		Type:     html.ElementNode,
		Data:     "ul",
		DataAtom: atom.Ul,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	ul.AppendChild(li)
	d.nodes = append(d.nodes, ul)
}

// Serialize renders the document back to text.
func (d *Document) Serialize() (string, error) {
	var sb strings.Builder
	for _, node := range d.nodes {
		if err := html.Render(&sb, node); err != nil {
			return "", errors.WrapParse("html", "note content", err)
		}
	}
	return sb.String(), nil
}

// findList walks a subtree for a ul element with the given class.
func findList(node *html.Node, class string) *html.Node {
	if node.Type == html.ElementNode && node.DataAtom == atom.Ul && hasClass(node, class) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findList(child, class); found != nil {
			return found
		}
	}
	return nil
}

// hasClass reports whether the node's class attribute contains class.
func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
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

// nodeText collects the text content of a subtree.
func nodeText(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Data
	}
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(nodeText(child))
	}
	return sb.String()
}
