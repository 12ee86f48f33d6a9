package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSectionID is returned when a section id string cannot be parsed
var ErrInvalidSectionID = errors.New("model: invalid section id")

// Metadata contains document-level information
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Creator   string `json:"creator,omitempty"`
	Producer  string `json:"producer,omitempty"`
	PageCount int    `json:"page_count"`
}

// SectionID identifies a section by its depth (heading level) and its
// position among the sections of that depth, in document order.
// SectionID{0, 0} is reserved for the whole document.
type SectionID struct {
	Depth int
	Index int
}

// DocumentSectionID is the synthetic id used for content that precedes any
// heading.
var DocumentSectionID = SectionID{}

// String renders the id as "s{depth}-{index}"
func (id SectionID) String() string {
	return "s" + strconv.Itoa(id.Depth) + "-" + strconv.Itoa(id.Index)
}

// ParseSectionID parses the "s{depth}-{index}" form produced by String.
func ParseSectionID(s string) (SectionID, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "s")
	if !ok {
		return SectionID{}, fmt.Errorf("%w: %q", ErrInvalidSectionID, s)
	}
	depthStr, indexStr, ok := strings.Cut(rest, "-")
	if !ok {
		return SectionID{}, fmt.Errorf("%w: %q", ErrInvalidSectionID, s)
	}
	depth, err := strconv.Atoi(depthStr)
	if err != nil || depth < 0 {
		return SectionID{}, fmt.Errorf("%w: %q", ErrInvalidSectionID, s)
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return SectionID{}, fmt.Errorf("%w: %q", ErrInvalidSectionID, s)
	}
	return SectionID{Depth: depth, Index: index}, nil
}

// MarshalText implements encoding.TextMarshaler
func (id SectionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *SectionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSectionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// PageRange is an inclusive range of 1-based page numbers
type PageRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Covers reports whether r includes every page of other
func (r PageRange) Covers(other PageRange) bool {
	return r.First <= other.First && r.Last >= other.Last
}

// Section is a node of the document outline
type Section struct {
	ID    SectionID `json:"id"`
	Level int       `json:"level"`
	Title string    `json:"title"`

	// Children are nested sections in document order
	Children []Section `json:"children,omitempty"`

	// ContentPreview is the start of the section's own text, cut at a word
	// boundary
	ContentPreview string `json:"content_preview"`

	// ImageCount counts images attached directly to this section
	ImageCount int `json:"image_count"`

	// PageRange spans this section and all of its descendants
	PageRange PageRange `json:"page_range"`
}

// IndexEntry is one row of the flattened outline
type IndexEntry struct {
	ID    SectionID `json:"id"`
	Level int       `json:"level"`
	Title string    `json:"title"`

	// Path holds the titles of all ancestors followed by this section's title
	Path []string `json:"path"`
}

// Breadcrumb renders the path joined with " > "
func (e IndexEntry) Breadcrumb() string {
	return strings.Join(e.Path, " > ")
}

// SectionIndex is the pre-order list of every section in a tree
type SectionIndex []IndexEntry

// Lookup returns the entry for id
func (idx SectionIndex) Lookup(id SectionID) (IndexEntry, bool) {
	for _, e := range idx {
		if e.ID == id {
			return e, true
		}
	}
	return IndexEntry{}, false
}

// DocumentTree is the navigable outline of one parsed document
type DocumentTree struct {
	Title    string       `json:"title"`
	Metadata Metadata     `json:"metadata"`
	Sections []Section    `json:"sections"`
	Index    SectionIndex `json:"index"`
}

// Find returns the section with the given id, or nil
func (t *DocumentTree) Find(id SectionID) *Section {
	var found *Section
	t.Walk(func(s *Section, _ []string) bool {
		if s.ID == id {
			found = s
			return false
		}
		return true
	})
	return found
}

// Walk visits every section in pre-order, passing the titles of its
// ancestors. Returning false from fn stops the walk.
func (t *DocumentTree) Walk(fn func(s *Section, ancestors []string) bool) {
	walkSections(t.Sections, nil, fn)
}

func walkSections(sections []Section, path []string, fn func(*Section, []string) bool) bool {
	for i := range sections {
		s := &sections[i]
		if !fn(s, path) {
			return false
		}
		if len(s.Children) > 0 {
			child := append(path[:len(path):len(path)], s.Title)
			if !walkSections(s.Children, child, fn) {
				return false
			}
		}
	}
	return true
}
