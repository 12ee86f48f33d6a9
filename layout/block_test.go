package layout

import "testing"

func yline(s string, y, size float64) TextLine {
	return TextLine{Runs: []string{s}, Y: y, FontSize: size}
}

func TestGroupBlocks(t *testing.T) {
	heading := yline("Overview", 700, 18)
	heading.IsHeading = true
	heading.HeadingLevel = 1

	lines := []TextLine{
		heading,
		yline("First line of a paragraph", 680, 10),
		yline("continues here.", 668, 10),
		yline("• item one", 656, 10),
		yline("• item two", 644, 10),
		yline("After the list", 632, 10),
		yline("Far below", 600, 10),
	}

	blocks := GroupBlocks(lines)

	want := []struct {
		typ   BlockType
		lines int
	}{
		{BlockHeading, 1},
		{BlockParagraph, 2},
		{BlockListItem, 2},
		{BlockParagraph, 1},
		{BlockParagraph, 1},
	}

	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, w := range want {
		if blocks[i].Type != w.typ || len(blocks[i].Lines) != w.lines {
			t.Errorf("block %d: %v with %d lines, want %v with %d",
				i, blocks[i].Type, len(blocks[i].Lines), w.typ, w.lines)
		}
	}
	if blocks[0].Level != 1 {
		t.Errorf("heading level = %d, want 1", blocks[0].Level)
	}
}

func TestGroupBlocks_ConsecutiveHeadings(t *testing.T) {
	a := yline("A", 700, 18)
	a.IsHeading, a.HeadingLevel = true, 1
	b := yline("B", 690, 18)
	b.IsHeading, b.HeadingLevel = true, 1

	blocks := GroupBlocks([]TextLine{a, b})
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
}

func TestTextBlock_Text(t *testing.T) {
	b := TextBlock{Lines: []TextLine{yline("one", 0, 10), yline(" ", 0, 10), yline("two", 0, 10)}}
	if got := b.Text(" "); got != "one two" {
		t.Errorf("Text(\" \") = %q", got)
	}
	if got := b.Text("\n"); got != "one\ntwo" {
		t.Errorf("Text(\"\\n\") = %q", got)
	}
}

func TestBlockTypeString(t *testing.T) {
	if BlockListItem.String() != "list_item" || BlockType(42).String() != "unknown" {
		t.Error("unexpected BlockType strings")
	}
}
