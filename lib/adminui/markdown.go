// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package adminui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Blog content is markdown. The preview pane renders it with goldmark
// for structure and chroma for fenced code blocks.

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown

	// A dedicated renderer pinned to ANSI256 so the preview looks the
	// same regardless of the ambient color profile (and in tests).
	markdownStyles *lipgloss.Renderer
)

func markdownInit() {
	markdownParser = goldmark.New()
	markdownStyles = lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
}

// renderMarkdown converts markdown source to styled terminal text
// wrapped to width.
func renderMarkdown(source string, width int) string {
	markdownOnce.Do(markdownInit)
	if width < 10 {
		width = 10
	}
	raw := []byte(source)
	document := markdownParser.Parser().Parse(text.NewReader(raw))

	var blocks []string
	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		if rendered := renderBlock(node, raw, width); rendered != "" {
			blocks = append(blocks, rendered)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlock(node ast.Node, source []byte, width int) string {
	switch block := node.(type) {
	case *ast.Heading:
		style := markdownStyles.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
		if block.Level > 2 {
			style = style.Foreground(lipgloss.Color("252"))
		}
		return style.Render(inlineText(block, source))

	case *ast.Paragraph, *ast.TextBlock:
		return markdownStyles.NewStyle().Width(width).Render(inlineText(node, source))

	case *ast.FencedCodeBlock:
		return renderCodeBlock(block, source)

	case *ast.CodeBlock:
		return indentLines(blockLines(block, source), "  ")

	case *ast.List:
		return renderList(block, source, width)

	case *ast.Blockquote:
		var inner []string
		for child := block.FirstChild(); child != nil; child = child.NextSibling() {
			inner = append(inner, renderBlock(child, source, width-2))
		}
		quoted := strings.Join(inner, "\n")
		faint := markdownStyles.NewStyle().Foreground(lipgloss.Color("245"))
		var out []string
		for _, line := range strings.Split(quoted, "\n") {
			out = append(out, faint.Render("│ ")+line)
		}
		return strings.Join(out, "\n")

	case *ast.ThematicBreak:
		return markdownStyles.NewStyle().Foreground(lipgloss.Color("240")).
			Render(strings.Repeat("─", width))

	default:
		return inlineText(node, source)
	}
}

func renderList(list *ast.List, source []byte, width int) string {
	var items []string
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var body []string
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if rendered := renderBlock(child, source, width-3); rendered != "" {
				body = append(body, rendered)
			}
		}
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		items = append(items, marker+strings.Join(body, "\n"))
	}
	return strings.Join(items, "\n")
}

func renderCodeBlock(block *ast.FencedCodeBlock, source []byte) string {
	code := blockLines(block, source)
	language := string(block.Language(source))

	var highlighted bytes.Buffer
	if language != "" {
		if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err == nil {
			return indentLines(strings.TrimRight(highlighted.String(), "\n"), "  ")
		}
	}
	return indentLines(strings.TrimRight(code, "\n"), "  ")
}

func blockLines(node ast.Node, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		b.Write(segment.Value(source))
	}
	return b.String()
}

func indentLines(content, prefix string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		lines[index] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// inlineText flattens a block's inline children to styled text.
func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch inline := child.(type) {
		case *ast.Text:
			b.Write(inline.Segment.Value(source))
			if inline.SoftLineBreak() {
				b.WriteString(" ")
			}
			if inline.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.CodeSpan:
			code := inlineText(inline, source)
			b.WriteString(markdownStyles.NewStyle().Foreground(lipgloss.Color("220")).Render(code))
		case *ast.Emphasis:
			style := markdownStyles.NewStyle().Italic(true)
			if inline.Level >= 2 {
				style = markdownStyles.NewStyle().Bold(true)
			}
			b.WriteString(style.Render(inlineText(inline, source)))
		case *ast.Link:
			label := inlineText(inline, source)
			b.WriteString(markdownStyles.NewStyle().Foreground(lipgloss.Color("75")).Render(label))
			b.WriteString(markdownStyles.NewStyle().Foreground(lipgloss.Color("245")).
				Render(fmt.Sprintf(" (%s)", inline.Destination)))
		case *ast.AutoLink:
			b.WriteString(markdownStyles.NewStyle().Foreground(lipgloss.Color("75")).
				Render(string(inline.URL(source))))
		case *ast.Image:
			b.WriteString(markdownStyles.NewStyle().Foreground(lipgloss.Color("245")).
				Render(fmt.Sprintf("[image: %s]", inline.Destination)))
		default:
			b.WriteString(inlineText(child, source))
		}
	}
	return b.String()
}
