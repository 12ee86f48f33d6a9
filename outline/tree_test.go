package outline

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/pdfoutline/model"
)

func twoLevel() []model.ClassifiedBlock {
	return []model.ClassifiedBlock{
		model.HeadingBlock(1, "Intro", 1),
		model.ParagraphBlock("Hello", 1),
		model.HeadingBlock(2, "Sub", 2),
		model.ParagraphBlock("World", 2),
	}
}

func TestBuildTree_TwoLevel(t *testing.T) {
	tree := BuildTree(twoLevel(), model.Metadata{PageCount: 2})

	if len(tree.Sections) != 1 {
		t.Fatalf("got %d root sections, want 1", len(tree.Sections))
	}
	intro := tree.Sections[0]
	if intro.Title != "Intro" || intro.ContentPreview != "Hello" {
		t.Errorf("root = %q / %q", intro.Title, intro.ContentPreview)
	}
	if intro.PageRange != (model.PageRange{First: 1, Last: 2}) {
		t.Errorf("root PageRange = %+v, want 1-2", intro.PageRange)
	}

	if len(intro.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(intro.Children))
	}
	sub := intro.Children[0]
	if sub.Title != "Sub" || sub.ContentPreview != "World" {
		t.Errorf("child = %q / %q", sub.Title, sub.ContentPreview)
	}
	if sub.PageRange != (model.PageRange{First: 2, Last: 2}) {
		t.Errorf("child PageRange = %+v, want 2-2", sub.PageRange)
	}

	if len(tree.Index) != 2 {
		t.Fatalf("index has %d entries, want 2", len(tree.Index))
	}
	if !reflect.DeepEqual(tree.Index[0].Path, []string{"Intro"}) {
		t.Errorf("index[0].Path = %v", tree.Index[0].Path)
	}
	if !reflect.DeepEqual(tree.Index[1].Path, []string{"Intro", "Sub"}) {
		t.Errorf("index[1].Path = %v", tree.Index[1].Path)
	}

	if tree.Title != "Intro" {
		t.Errorf("Title = %q, want first section title", tree.Title)
	}
}

func TestBuildTree_Title(t *testing.T) {
	tests := []struct {
		name   string
		blocks []model.ClassifiedBlock
		meta   model.Metadata
		want   string
	}{
		{"metadata wins", twoLevel(), model.Metadata{Title: " Report "}, "Report"},
		{"first section", twoLevel(), model.Metadata{}, "Intro"},
		{"placeholder", nil, model.Metadata{}, UntitledDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTree(tt.blocks, tt.meta).Title; got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildTree_Fallback(t *testing.T) {
	blocks := []model.ClassifiedBlock{
		model.ParagraphBlock("first page text", 1),
		model.ImageBlock("p1-Im0", 1),
		model.TableBlock([]string{"A", "B"}, [][]string{{"1", "2"}}, 2),
	}

	tree := BuildTree(blocks, model.Metadata{PageCount: 2})

	if len(tree.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(tree.Sections))
	}
	for i, s := range tree.Sections {
		want := pageTitle(i + 1)
		if s.Title != want || s.Level != 1 {
			t.Errorf("section %d = %q level %d, want %q level 1", i, s.Title, s.Level, want)
		}
	}
	if tree.Sections[0].ImageCount != 1 {
		t.Errorf("page 1 ImageCount = %d, want 1", tree.Sections[0].ImageCount)
	}
	if tree.Sections[1].ContentPreview != "A B 1 2" {
		t.Errorf("page 2 preview = %q", tree.Sections[1].ContentPreview)
	}
}

func TestBuildTree_EmptyPages(t *testing.T) {
	tree := BuildTree(nil, model.Metadata{PageCount: 3})
	if len(tree.Sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(tree.Sections))
	}
	if tree.Sections[2].Title != "Page 3" || tree.Sections[2].ContentPreview != "" {
		t.Errorf("section 3 = %+v", tree.Sections[2])
	}

	empty := BuildTree(nil, model.Metadata{})
	if empty.Sections == nil || len(empty.Sections) != 0 {
		t.Errorf("Sections = %#v, want empty non-nil slice", empty.Sections)
	}
}

func TestBuildTree_ContentBeforeFirstHeading(t *testing.T) {
	blocks := []model.ClassifiedBlock{
		model.ParagraphBlock("orphan", 1),
		model.HeadingBlock(1, "Start", 1),
		model.ParagraphBlock("kept", 1),
	}

	tree := BuildTree(blocks, model.Metadata{})
	if len(tree.Sections) != 1 || tree.Sections[0].ContentPreview != "kept" {
		t.Errorf("sections = %+v", tree.Sections)
	}
}

func TestBuildTree_Invariants(t *testing.T) {
	blocks := []model.ClassifiedBlock{
		model.HeadingBlock(2, "Preface", 1),
		model.ParagraphBlock("p", 1),
		model.HeadingBlock(1, "Part One", 2),
		model.HeadingBlock(3, "Deep", 3),
		model.ParagraphBlock("d", 4),
		model.HeadingBlock(2, "Chapter", 5),
		model.ImageBlock("p5-Im0", 5),
		model.HeadingBlock(1, "Part Two", 6),
		model.HeadingBlock(2, "Chapter", 7),
	}

	tree := BuildTree(blocks, model.Metadata{})

	seen := make(map[model.SectionID]bool)
	var check func(parent *model.Section, children []model.Section)
	check = func(parent *model.Section, children []model.Section) {
		for i := range children {
			c := &children[i]
			if seen[c.ID] {
				t.Errorf("id %s used twice", c.ID)
			}
			seen[c.ID] = true
			if parent != nil {
				if c.Level <= parent.Level {
					t.Errorf("%q (level %d) nested under %q (level %d)", c.Title, c.Level, parent.Title, parent.Level)
				}
				if !parent.PageRange.Covers(c.PageRange) {
					t.Errorf("%q range %+v does not cover %q range %+v", parent.Title, parent.PageRange, c.Title, c.PageRange)
				}
			}
			check(c, c.Children)
		}
	}
	check(nil, tree.Sections)

	if len(seen) != 6 {
		t.Errorf("got %d sections, want 6", len(seen))
	}

	var ids []string
	for _, e := range tree.Index {
		ids = append(ids, e.ID.String())
	}
	want := []string{"s2-1", "s1-1", "s3-1", "s2-2", "s1-2", "s2-3"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("index ids = %v, want %v", ids, want)
	}

	partOne := tree.Find(model.SectionID{Depth: 1, Index: 1})
	if partOne == nil || partOne.PageRange != (model.PageRange{First: 2, Last: 5}) {
		t.Errorf("Part One = %+v", partOne)
	}
}

func TestBuildTree_Idempotent(t *testing.T) {
	a := BuildTree(twoLevel(), model.Metadata{PageCount: 2})
	b := BuildTree(twoLevel(), model.Metadata{PageCount: 2})
	if !reflect.DeepEqual(a, b) {
		t.Error("BuildTree is not deterministic")
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("word ", 30)

	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"short", "  short text ", 100, "short text"},
		{"exact", "abcde", 5, "abcde"},
		{"word boundary", "alpha beta gamma", 12, "alpha beta…"},
		{"cut on space", "alpha beta gamma", 10, "alpha beta…"},
		{"single long word", "abcdefghij", 4, "abcd…"},
		{"multibyte", "ééééé ééééé", 7, "ééééé…"},
		{"default length", long, PreviewLength, strings.TrimSpace(long[:100]) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.limit); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}
