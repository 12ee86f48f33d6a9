package outline

import "github.com/tsawler/pdfoutline/model"

// MaxLevel is the deepest heading level tracked
const MaxLevel = 6

// OpenSection is a section whose heading has been seen and whose end has
// not been reached yet
type OpenSection struct {
	ID    model.SectionID
	Level int
	Title string
	Page  int // page of the heading
}

// Visitor receives the events of a Walk. Any callback may be nil.
type Visitor struct {
	// OnOpen is called for every heading, with the sections enclosing it
	OnOpen func(ancestors []OpenSection, sec OpenSection)

	// OnClose is called when a section ends, innermost first
	OnClose func(sec OpenSection)

	// OnContent is called for every non-heading block with the open
	// sections, outermost first. stack is empty before the first heading.
	OnContent func(stack []OpenSection, b model.ClassifiedBlock)
}

// Walk runs the section stack over blocks. Ids are assigned from per-level
// counters that only ever increase, so no two headings share one.
func Walk(blocks []model.ClassifiedBlock, v Visitor) {
	var counters [MaxLevel + 1]int
	var stack []OpenSection

	closeTo := func(level int) {
		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if v.OnClose != nil {
				v.OnClose(top)
			}
		}
	}

	for _, b := range blocks {
		if b.Kind != model.KindHeading {
			if v.OnContent != nil {
				v.OnContent(stack, b)
			}
			continue
		}

		level := clampLevel(b.Level)
		closeTo(level)

		counters[level]++
		sec := OpenSection{
			ID:    model.SectionID{Depth: level, Index: counters[level]},
			Level: level,
			Title: b.Text,
			Page:  b.Page,
		}
		if v.OnOpen != nil {
			v.OnOpen(stack, sec)
		}
		stack = append(stack, sec)
	}

	closeTo(1)
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// hasHeadings reports whether the walk will open any section
func hasHeadings(blocks []model.ClassifiedBlock) bool {
	for _, b := range blocks {
		if b.Kind == model.KindHeading {
			return true
		}
	}
	return false
}

// containsID reports whether id is one of the open sections
func containsID(stack []OpenSection, id model.SectionID) bool {
	for _, s := range stack {
		if s.ID == id {
			return true
		}
	}
	return false
}
