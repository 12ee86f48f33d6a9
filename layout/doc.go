// Package layout turns positioned text spans into a page-ordered stream of
// classified blocks.
//
// The pipeline runs in fixed stages:
//
//   - [ComputeFontStats] finds the body font size across the whole document
//     and derives the heading threshold from it.
//   - [LineGrouper] groups spans that share a baseline into [TextLine]s and
//     merges adjacent spans into text runs.
//   - [ClassifyHeadings] ranks lines set larger than the threshold into
//     heading levels 1 to 6, by font size alone.
//   - [GroupBlocks] gathers lines into [TextBlock]s, breaking on headings,
//     line type changes and large vertical gaps.
//   - [Classifier] turns blocks into [model.ClassifiedBlock]s, running table
//     detection on every block that is neither a heading nor a list, and
//     interleaves image placements by vertical position.
//
// [Analyzer] wires the stages together:
//
//	analyzer := layout.NewAnalyzer()
//	blocks := analyzer.Analyze(pages)
//
// All stages are pure functions of their input. Heading ranks depend on the
// font sizes of every page, so analysis always sees the complete document.
package layout
