package util

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func ParseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// ElementByID returns the first element whose id attribute is exactly id.
func ElementByID(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find(fmt.Sprintf(`[id=%q]`, id)).First()
}

// ElementByClass returns the first element carrying class among its classes.
func ElementByClass(doc *goquery.Document, class string) *goquery.Selection {
	return doc.Find("." + class).First()
}

// ExtractAttributes collects the attributes of the first node in sel.
// The boolean is false when sel is empty.
func ExtractAttributes(sel *goquery.Selection) (map[string]string, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	node := sel.Get(0)
	attributes := make(map[string]string, len(node.Attr))
	for _, attr := range node.Attr {
		attributes[attr.Key] = strings.TrimSpace(attr.Val)
	}
	return attributes, true
}

// OGSearch returns the content of the og:<property> meta tag.
func OGSearch(doc *goquery.Document, property string) string {
	name := "og:" + property
	selectors := []string{
		fmt.Sprintf(`meta[property=%q]`, name),
		fmt.Sprintf(`meta[name=%q]`, name),
	}
	for _, selector := range selectors {
		content, ok := doc.Find(selector).First().Attr("content")
		if ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

// ElementText returns the collapsed text of the first match of selector.
func ElementText(doc *goquery.Document, selector string) string {
	text := doc.Find(selector).First().Text()
	return strings.Join(strings.Fields(text), " ")
}
