// Package document opens paginated PDF documents for rendering.
//
// A [Document] is the decoded handle behind one viewer. It exposes the page
// count, the displayed size of every page, and the drawable [Content] of a
// page: filled and stroked rectangles, straight lines, and positioned text
// runs, all in PDF user space relative to the page's media box.
//
// # Opening
//
//	doc, err := document.Open(ctx, data)
//	if err != nil {
//	    // not a PDF, or the structure could not be read
//	}
//	defer doc.Close()
//
// In-memory payloads are spooled to a temporary file that Close removes.
// [OpenFile] reads a file in place.
//
// # Page numbers
//
// All page numbers in this package are 1-based.
package document
