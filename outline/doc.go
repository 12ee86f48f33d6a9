// Package outline builds a navigable section tree from a stream of
// classified blocks and answers reads against it.
//
// Headings open sections. A heading of level L closes every open section of
// level L or deeper, so each section's children have strictly larger
// levels. Section ids are "s{level}-{n}" where n counts headings of that
// level through the whole document, starting at 1. When a document has no
// headings at all, [BuildTree] falls back to one "Page n" section per page.
//
// Tree building, section reads and image listing share a single traversal,
// [Walk], so they always agree on which content belongs to which section.
package outline
