// Package images lists and extracts the image XObjects of a document.
//
// Every image is identified by "p{page}-{name}", its page number and the
// resource name it is registered under. JPEG, JPEG 2000 and JBIG2 data is
// returned as stored. Raw and fax-encoded samples in gray, RGB, CMYK or
// indexed colour are re-encoded as PNG. Anything else is returned with the
// unknown format rather than failing.
package images
