package outline

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/pdfoutline/model"
)

const (
	// PreviewLength is the number of characters kept in a content preview
	PreviewLength = 100

	// UntitledDocument is the title of a document with no metadata title
	// and no sections
	UntitledDocument = "Untitled Document"
)

// sectionBuilder accumulates one section while its heading is open
type sectionBuilder struct {
	section model.Section
	text    []string
}

func newSectionBuilder(id model.SectionID, level int, title string, page int) *sectionBuilder {
	return &sectionBuilder{section: model.Section{
		ID:        id,
		Level:     level,
		Title:     title,
		PageRange: model.PageRange{First: page, Last: page},
	}}
}

func (b *sectionBuilder) add(block model.ClassifiedBlock) {
	if block.Kind == model.KindImage {
		b.section.ImageCount++
	} else if t := strings.TrimSpace(block.PlainText()); t != "" {
		b.text = append(b.text, t)
	}
	b.seePage(block.Page)
}

func (b *sectionBuilder) seePage(page int) {
	r := &b.section.PageRange
	if r.First == 0 || (page > 0 && page < r.First) {
		r.First = page
	}
	if page > r.Last {
		r.Last = page
	}
}

func (b *sectionBuilder) finish() model.Section {
	b.section.ContentPreview = Preview(strings.Join(b.text, " "), PreviewLength)
	return b.section
}

// BuildTree builds the outline of a document. With at least one heading
// block, sections nest by heading level and content before the first
// heading is left out. Without headings every page becomes a "Page n"
// section.
func BuildTree(blocks []model.ClassifiedBlock, meta model.Metadata) *model.DocumentTree {
	var sections []model.Section
	if hasHeadings(blocks) {
		sections = buildFromHeadings(blocks)
	} else {
		sections = buildFromPages(blocks, meta.PageCount)
	}
	if sections == nil {
		sections = []model.Section{}
	}

	tree := &model.DocumentTree{
		Metadata: meta,
		Sections: sections,
		Index:    BuildIndex(sections),
	}

	switch {
	case strings.TrimSpace(meta.Title) != "":
		tree.Title = strings.TrimSpace(meta.Title)
	case len(sections) > 0:
		tree.Title = sections[0].Title
	default:
		tree.Title = UntitledDocument
	}
	return tree
}

func buildFromHeadings(blocks []model.ClassifiedBlock) []model.Section {
	var roots []model.Section
	var stack []*sectionBuilder

	Walk(blocks, Visitor{
		OnOpen: func(_ []OpenSection, sec OpenSection) {
			stack = append(stack, newSectionBuilder(sec.ID, sec.Level, sec.Title, sec.Page))
		},
		OnClose: func(OpenSection) {
			done := stack[len(stack)-1].finish()
			stack = stack[:len(stack)-1]

			if len(stack) == 0 {
				roots = append(roots, done)
				return
			}
			parent := stack[len(stack)-1]
			parent.section.Children = append(parent.section.Children, done)
			parent.seePage(done.PageRange.First)
			parent.seePage(done.PageRange.Last)
		},
		OnContent: func(open []OpenSection, b model.ClassifiedBlock) {
			if len(open) == 0 {
				return
			}
			stack[len(stack)-1].add(b)
		},
	})

	return roots
}

func buildFromPages(blocks []model.ClassifiedBlock, pageCount int) []model.Section {
	pages := pageCount
	for _, b := range blocks {
		if b.Page > pages {
			pages = b.Page
		}
	}

	builders := make([]*sectionBuilder, pages)
	for i := range builders {
		n := i + 1
		builders[i] = newSectionBuilder(pageSectionID(n), 1, pageTitle(n), n)
	}
	for _, b := range blocks {
		if b.Page >= 1 && b.IsContent() {
			builders[b.Page-1].add(b)
		}
	}

	sections := make([]model.Section, 0, pages)
	for _, b := range builders {
		sections = append(sections, b.finish())
	}
	return sections
}

func pageSectionID(page int) model.SectionID {
	return model.SectionID{Depth: 1, Index: page}
}

func pageTitle(page int) string {
	return "Page " + strconv.Itoa(page)
}

// BuildIndex flattens sections in pre-order, recording each one's
// breadcrumb path
func BuildIndex(sections []model.Section) model.SectionIndex {
	var index model.SectionIndex
	tree := model.DocumentTree{Sections: sections}
	tree.Walk(func(s *model.Section, ancestors []string) bool {
		path := make([]string, 0, len(ancestors)+1)
		path = append(path, ancestors...)
		path = append(path, s.Title)
		index = append(index, model.IndexEntry{
			ID:    s.ID,
			Level: s.Level,
			Title: s.Title,
			Path:  path,
		})
		return true
	})
	return index
}

// Preview shortens text to at most limit characters, cutting at the last
// word boundary and appending an ellipsis when anything was removed.
func Preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	// byte offset of the first rune past the limit
	cut := 0
	for i := 0; i < limit; i++ {
		_, size := utf8.DecodeRuneInString(text[cut:])
		cut += size
	}

	head := text[:cut]
	next, _ := utf8.DecodeRuneInString(text[cut:])
	if !unicode.IsSpace(next) {
		if i := strings.LastIndexFunc(head, unicode.IsSpace); i > 0 {
			head = head[:i]
		}
	}
	return strings.TrimRightFunc(head, unicode.IsSpace) + "…"
}
