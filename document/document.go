package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"

	"github.com/tsawler/syncview/internal/logging"
)

// DefaultPageSize is used for pages whose media box cannot be read (US letter).
var DefaultPageSize = Size{Width: 612, Height: 792}

// ErrPageOutOfRange is returned for page numbers outside 1..PageCount.
var ErrPageOutOfRange = errors.New("page out of range")

// ErrClosed is returned by a Document after Close.
var ErrClosed = errors.New("document closed")

type pageInfo struct {
	media  Size
	origin [2]float64
	rotate int
}

// Document is an open PDF. It is safe for concurrent use; access to the
// underlying reader is serialized.
type Document struct {
	mu     sync.Mutex
	r      *reader.Reader
	temp   string
	count  int
	info   map[int]pageInfo
	closed bool
}

// Open decodes data as a PDF document.
func Open(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	off := headerOffset(data)
	if off < 0 {
		return nil, ErrNotPDF
	}

	f, err := os.CreateTemp("", "syncview-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	path := f.Name()
	_, werr := f.Write(data[off:])
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to spool document: %w", errors.Join(werr, cerr))
	}

	doc, err := openPath(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	doc.temp = path
	return doc, nil
}

// OpenFile opens the PDF at path without copying it.
func OpenFile(path string) (*Document, error) {
	return openPath(path)
}

func openPath(path string) (doc *Document, err error) {
	// The reader is not hardened against every malformed structure.
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("failed to parse document: %v", p)
		}
	}()

	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	count, err := r.PageCount()
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to read page tree: %w", err)
	}
	if count <= 0 {
		r.Close()
		return nil, fmt.Errorf("document has no pages")
	}

	logging.Logger().Debug("document opened", "path", path, "pages", count, "version", r.Version().String())
	return &Document{r: r, count: count, info: make(map[int]pageInfo)}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.count
}

// PageSize returns the displayed size of page in points, rotation applied.
func (d *Document) PageSize(page int) (Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info, _, err := d.pageLocked(page)
	if err != nil {
		return Size{}, err
	}
	return rotatedSize(info.media, info.rotate), nil
}

// Content returns the drawable content of page.
func (d *Document) Content(ctx context.Context, page int) (c *Content, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			c, err = nil, fmt.Errorf("failed to interpret page %d: %v", page, p)
		}
	}()

	info, pg, err := d.pageLocked(page)
	if err != nil {
		return nil, err
	}

	c = &Content{Media: info.media, Rotate: info.rotate}

	data, err := contentBytes(pg)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		ge := graphicsstate.NewGraphicsExtractor()
		if err := ge.ExtractFromBytes(data); err != nil {
			return nil, fmt.Errorf("failed to parse content stream: %w", err)
		}
		for _, r := range ge.GetRectangles() {
			c.Rects = append(c.Rects, Rect{
				X:           r.BBox.X - info.origin[0],
				Y:           r.BBox.Y - info.origin[1],
				Width:       r.BBox.Width,
				Height:      r.BBox.Height,
				Filled:      r.IsFilled,
				FillColor:   Color(r.FillColor),
				Stroked:     r.IsStroked,
				StrokeColor: Color(r.StrokeColor),
				StrokeWidth: r.StrokeWidth,
			})
		}
		for _, l := range ge.GetLines() {
			c.Lines = append(c.Lines, Line{
				X1:    l.Start.X - info.origin[0],
				Y1:    l.Start.Y - info.origin[1],
				X2:    l.End.X - info.origin[0],
				Y2:    l.End.Y - info.origin[1],
				Width: l.Width,
				Color: Color(l.Color),
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frags, err := d.r.ExtractTextFragments(pg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	for _, f := range frags {
		if f.Text == "" {
			continue
		}
		c.Text = append(c.Text, Text{
			X:     f.X - info.origin[0],
			Y:     f.Y - info.origin[1],
			Size:  f.FontSize,
			Value: f.Text,
		})
	}
	return c, nil
}

// Close releases the reader and removes any spool file. It is safe to call
// more than once.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	err := d.r.Close()
	if d.temp != "" {
		if rerr := os.Remove(d.temp); rerr != nil && !os.IsNotExist(rerr) {
			err = errors.Join(err, rerr)
		}
	}
	return err
}

func (d *Document) pageLocked(page int) (pageInfo, *pages.Page, error) {
	if d.closed {
		return pageInfo{}, nil, ErrClosed
	}
	if page < 1 || page > d.count {
		return pageInfo{}, nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, d.count)
	}
	pg, err := d.r.GetPage(page - 1)
	if err != nil {
		return pageInfo{}, nil, fmt.Errorf("failed to get page %d: %w", page, err)
	}
	if info, ok := d.info[page]; ok {
		return info, pg, nil
	}

	info := pageInfo{media: DefaultPageSize, rotate: normalizeRotation(pg.Rotate())}
	box, err := pg.MediaBox()
	if err == nil && len(box) == 4 && box[2] > box[0] && box[3] > box[1] {
		info.media = Size{Width: box[2] - box[0], Height: box[3] - box[1]}
		info.origin = [2]float64{box[0], box[1]}
	} else {
		logging.Logger().Debug("media box unreadable, using default", "page", page, "err", err)
	}
	d.info[page] = info
	return info, pg, nil
}

func contentBytes(pg *pages.Page) ([]byte, error) {
	contents, err := pg.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	var all []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		all = append(all, data...)
		all = append(all, '\n')
	}
	return all, nil
}
