package outline

import (
	"errors"
	"testing"

	"github.com/tsawler/pdfoutline/model"
)

func sid(depth, index int) *model.SectionID {
	return &model.SectionID{Depth: depth, Index: index}
}

func richBlocks() []model.ClassifiedBlock {
	return []model.ClassifiedBlock{
		model.ParagraphBlock("preamble", 1),
		model.HeadingBlock(1, "Intro", 1),
		model.ParagraphBlock("Hello", 1),
		model.HeadingBlock(2, "Data", 2),
		model.TableBlock([]string{"k", "v"}, [][]string{{"a", "1"}}, 2),
		model.ImageBlock("p2-Im0", 2),
		model.HeadingBlock(1, "End", 3),
		model.ParagraphBlock("Bye", 3),
	}
}

func TestReadSection(t *testing.T) {
	blocks := richBlocks()
	tree := BuildTree(blocks, model.Metadata{})

	tests := []struct {
		name       string
		id         *model.SectionID
		wantTitle  string
		wantText   string
		wantImages int
	}{
		{
			name:       "section with sub-section",
			id:         sid(1, 1),
			wantTitle:  "Intro",
			wantText:   "Hello\n\n## Data\n\n| k | v |\n| --- | --- |\n| a | 1 |\n\n[image: p2-Im0]",
			wantImages: 1,
		},
		{
			name:       "leaf section",
			id:         sid(1, 2),
			wantTitle:  "End",
			wantText:   "Bye",
			wantImages: 0,
		},
		{
			name:      "whole document",
			id:        nil,
			wantTitle: "Intro",
			wantText: "preamble\n\n# Intro\n\nHello\n\n## Data\n\n| k | v |\n| --- | --- |\n| a | 1 |" +
				"\n\n[image: p2-Im0]\n\n# End\n\nBye",
			wantImages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSection(tree, blocks, tt.id)
			if err != nil {
				t.Fatalf("ReadSection() error = %v", err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text =\n%q\nwant\n%q", got.Text, tt.wantText)
			}
			if len(got.Images) != tt.wantImages {
				t.Errorf("Images = %v, want %d", got.Images, tt.wantImages)
			}
			if (got.ID == nil) != (tt.id == nil) {
				t.Errorf("ID = %v, want %v", got.ID, tt.id)
			}
		})
	}
}

func TestReadSection_NotFound(t *testing.T) {
	blocks := richBlocks()
	tree := BuildTree(blocks, model.Metadata{})

	_, err := ReadSection(tree, blocks, sid(4, 1))
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("error = %v, want ErrSectionNotFound", err)
	}
}

func TestReadSection_Fallback(t *testing.T) {
	blocks := []model.ClassifiedBlock{
		model.ParagraphBlock("one", 1),
		model.ParagraphBlock("two", 2),
		model.ParagraphBlock("more two", 2),
	}
	tree := BuildTree(blocks, model.Metadata{PageCount: 2})

	got, err := ReadSection(tree, blocks, sid(1, 2))
	if err != nil {
		t.Fatalf("ReadSection() error = %v", err)
	}
	if got.Title != "Page 2" || got.Text != "two\n\nmore two" {
		t.Errorf("got %q: %q", got.Title, got.Text)
	}
}
