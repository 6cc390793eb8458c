// Package webarticle turns an article page into plain text. The reduction
// is deliberately opinionated: headings and real paragraphs from the main
// content region, nothing else, so downstream consumers get prose rather
// than navigation debris.
package webarticle

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/mintnote/extract/internal/errdefs"
	"github.com/mintnote/extract/internal/fetch"
)

const (
	// minParagraphRunes filters nav-link fragments that pages mark up as
	// paragraphs.
	minParagraphRunes = 20
	// minFragments is the point below which the page counts as
	// paragraph-poor and list items are collected as a secondary source.
	minFragments = 3
	// minContentRunes is the smallest joined result worth returning.
	minContentRunes = 50
)

// noiseSelectors are removed from the content region before any text is
// collected.
var noiseSelectors = []string{"script", "style", "nav", "header", "footer", "aside"}

// Article is the extraction outcome. Title and Author are best-effort and
// may be empty.
type Article struct {
	URL     string
	Title   string
	Author  string
	Content string
}

// Extractor fetches and reduces article pages. Client should carry a
// browser signature; plenty of origins serve login walls to obvious bots.
type Extractor struct {
	Client *fetch.Client
}

// Extract fetches url and returns its readable text. It fails with
// errdefs.ErrFetchFailed on transport-level problems and with
// errdefs.ErrInsufficientContent when the page yields less than
// minContentRunes of text.
func (e *Extractor) Extract(ctx context.Context, url string) (*Article, error) {
	body, _, err := e.Client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("article markup: %w: %v", errdefs.ErrParseFailed, err)
	}

	title := collapseSpaces(doc.Find("title").First().Text())
	author := metaAuthor(doc)

	// Richest region first: a page with an explicit <article> has told us
	// where the content is.
	var region *goquery.Selection
	for _, tag := range []string{"article", "main", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			region = sel.First()
			break
		}
	}
	if region == nil {
		return nil, fmt.Errorf("page has no content region: %w", errdefs.ErrParseFailed)
	}
	for _, sel := range noiseSelectors {
		region.Find(sel).Remove()
	}

	var fragments []string
	region.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if t := collapseSpaces(s.Text()); t != "" {
			fragments = append(fragments, t)
		}
	})
	region.Find("p").Each(func(_ int, s *goquery.Selection) {
		t := collapseSpaces(s.Text())
		if utf8.RuneCountInString(t) > minParagraphRunes {
			fragments = append(fragments, t)
		}
	})
	if len(fragments) < minFragments {
		region.Find("li").Each(func(_ int, s *goquery.Selection) {
			if t := collapseSpaces(s.Text()); t != "" {
				fragments = append(fragments, t)
			}
		})
	}

	content := strings.Join(fragments, "\n\n")
	if utf8.RuneCountInString(content) < minContentRunes {
		return nil, fmt.Errorf("page yields too little text, try copying the text manually: %w", errdefs.ErrInsufficientContent)
	}

	return &Article{URL: url, Title: title, Author: author, Content: content}, nil
}

func metaAuthor(doc *goquery.Document) string {
	for _, sel := range []string{`meta[name="author"]`, `meta[property="article:author"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// collapseSpaces trims and squeezes all whitespace runs to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
