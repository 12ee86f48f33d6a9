// Package model holds the data structures shared by every stage of the
// outline pipeline.
//
// # Blocks
//
// A [ClassifiedBlock] is the page-tagged output of layout analysis. It is one
// of four kinds: heading, paragraph, table or image. The flat, page-ordered
// block stream is the only input of the outline builder.
//
// # Outline
//
// A [DocumentTree] carries the document title, its [Metadata], the top-level
// [Section] nodes and a flattened [SectionIndex]. Sections are addressed by a
// [SectionID], a (depth, index) pair rendered as "s{depth}-{index}":
//
//	id, err := model.ParseSectionID("s2-0")
//	sec := tree.Find(id)
//
// # Reading
//
// [SectionContent], [PeekContent] and [EnrichedImageRef] are the responses of
// the read, peek and image listing operations. [Position] selects where a
// peek window is taken from.
//
// # Geometry
//
// [Point], [BBox] and [Matrix] are the geometric primitives used during
// extraction. Coordinates follow the PDF convention: Y grows upward.
package model
