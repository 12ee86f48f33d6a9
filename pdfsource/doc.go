// Package pdfsource gives the extraction pipeline read access to a PDF.
//
// [Backend] is the narrow interface the pipeline consumes: the page list,
// each page's font resources, its decompressed content stream, font-aware
// string decoding and document metadata. [Document] implements it on top of
// github.com/ledongthuc/pdf.
//
//	doc, err := pdfsource.Open(data)
//	if errors.Is(err, pdfsource.ErrEncrypted) {
//	    // refuse rather than guess
//	}
//	for _, p := range doc.Pages() {
//	    content, err := doc.PageContent(p)
//	    ...
//	}
//
// Stream data of unencrypted files is read directly from the file bytes and
// decoded by internal/filters, which handles every predictor and the fax
// and run-length filters. Encrypted files opened with the empty user
// password go through the library's own decrypting reader.
//
// The underlying library panics on some malformed objects. Every method
// recovers, degrading to an empty result for that page or object.
package pdfsource
