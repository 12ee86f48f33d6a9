// Package contentstream decodes PDF page content streams into a flat list of
// operations.
//
// Each [Operation] pairs an operator name with the operands that preceded it:
//
//	ops, err := contentstream.Parse(data)
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// Operands are [Value]s, a tagged union over the PDF object kinds that can
// appear in a content stream: null, booleans, integers, reals, names,
// strings, arrays, dictionaries and indirect references.
//
// Parsing is lenient. A malformed token is skipped together with any operands
// collected before it, and parsing resumes at the next byte. The first such
// problem is reported as an error wrapping [ErrSyntax], alongside every
// operation that could be recovered. Inline image data (BI ... ID ... EI) is
// skipped without interpretation.
package contentstream
