// Package preview turns markdown note content into a single plain-text line
// for list rows.
package preview

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const cacheSize = 512

var cache *lru.Cache[string, string]

func init() {
	c, err := lru.New[string, string](cacheSize)
	if err != nil {
		panic(err)
	}
	cache = c
}

// Plain renders content as one line of at most max runes. Markdown markup is
// dropped; block boundaries become single spaces. A max of 0 means no limit.
func Plain(content string, max int) string {
	key := strconv.Itoa(max) + "\x00" + content
	if v, ok := cache.Get(key); ok {
		return v
	}
	v := truncate(flatten(content), max)
	cache.Add(key, v)
	return v
}

func flatten(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var parts []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
			if s := strings.TrimSpace(inlineText(n, source)); s != "" {
				parts = append(parts, s)
			}
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if s := strings.TrimSpace(string(seg.Value(source))); s != "" {
					parts = append(parts, s)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// inlineText concatenates the text under n, turning line breaks into spaces
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
