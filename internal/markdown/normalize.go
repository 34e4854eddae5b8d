// Package markdown converts AI-drafted Markdown into plain text that
// renders acceptably on LinkedIn, which has no Markdown support.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

var (
	hashtagRe    = regexp.MustCompile(`#\w+`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
)

// ToLinkedInText renders Markdown to plain text. Headings become their
// own paragraph, unordered list items get a "• " prefix, ordered list
// items keep their 1-based position within their list, and any #word
// tokens found in the source are de-duplicated and appended as a final
// hashtag line. Malformed input degrades to trimmed passthrough.
func ToLinkedInText(md string) string {
	text, err := renderPlain(md)
	if err != nil {
		text = strings.TrimSpace(md)
	}

	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if tags := collectHashtags(md); len(tags) > 0 {
		text += "\n\n" + strings.Join(tags, " ")
	}
	return text
}

func renderPlain(md string) (string, error) {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(md), &html); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&html)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	var b strings.Builder
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		writeBlock(&b, sel)
	})
	return b.String(), nil
}

func writeBlock(b *strings.Builder, sel *goquery.Selection) {
	switch goquery.NodeName(sel) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.WriteString(strings.TrimSpace(sel.Text()))
		b.WriteString("\n\n")
	case "ul":
		sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			b.WriteString("• " + strings.TrimSpace(li.Text()) + "\n")
		})
		b.WriteString("\n")
	case "ol":
		sel.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
			fmt.Fprintf(b, "%d. %s\n", i+1, strings.TrimSpace(li.Text()))
		})
		b.WriteString("\n")
	default:
		if t := strings.TrimSpace(sel.Text()); t != "" {
			b.WriteString(t)
			b.WriteString("\n\n")
		}
	}
}

// collectHashtags returns every #word token from the source in order
// of first appearance, duplicates removed.
func collectHashtags(md string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range hashtagRe.FindAllString(md, -1) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
