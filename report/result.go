package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/go-rdreport/internal/tableinfer"
)

// ResultKind discriminates the payload of a ResultItem.
type ResultKind string

const (
	KindText  ResultKind = "text"
	KindTable ResultKind = "table"
	KindImage ResultKind = "image"
)

// ResultItem is one entry of the Results section. Exactly one of Text,
// Table or Image is set, matching Kind.
type ResultItem struct {
	Kind  ResultKind
	Title string

	Text  *TextResult
	Table *TableResult
	Image *ImageResult
}

// TextResult is free text rendered one paragraph per line.
type TextResult struct {
	Content string
}

// TableResult keeps the pasted text together with the grid inferred from
// it. Rows is a cache of the inference and is refreshed by SetRawText.
type TableResult struct {
	Raw   string
	Rows  [][]string
	Style string
}

// ImageResult is one or more images sharing a caption.
type ImageResult struct {
	Images  []string
	Caption string
}

// NewTextResult returns a text result item.
func NewTextResult(title, content string) ResultItem {
	return ResultItem{Kind: KindText, Title: title, Text: &TextResult{Content: content}}
}

// NewTableResult returns a table result item whose rows are inferred from
// raw. An empty style selects DefaultTableStyle.
func NewTableResult(title, raw, style string) ResultItem {
	if style == "" {
		style = DefaultTableStyle
	}
	tr := &TableResult{Style: style}
	tr.SetRawText(raw)
	return ResultItem{Kind: KindTable, Title: title, Table: tr}
}

// NewImageResult returns an image result item.
func NewImageResult(title string, images []string, caption string) ResultItem {
	return ResultItem{
		Kind:  KindImage,
		Title: title,
		Image: &ImageResult{Images: cloneStrings(images), Caption: caption},
	}
}

// SetRawText replaces the pasted text and re-infers the grid.
func (t *TableResult) SetRawText(raw string) {
	t.Raw = raw
	t.Rows = tableinfer.Infer(raw)
}

// Grid returns the cached rows, inferring them from Raw when the cache is
// empty.
func (t *TableResult) Grid() [][]string {
	if len(t.Rows) > 0 {
		return t.Rows
	}
	return tableinfer.Infer(t.Raw)
}

// Validate reports whether the populated payload matches Kind.
func (r ResultItem) Validate() error {
	set := 0
	for _, p := range []bool{r.Text != nil, r.Table != nil, r.Image != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: %q has %d payloads", ErrInvalidResultItem, r.Title, set)
	}
	switch r.Kind {
	case KindText:
		if r.Text == nil {
			return fmt.Errorf("%w: %q is text without text payload", ErrInvalidResultItem, r.Title)
		}
	case KindTable:
		if r.Table == nil {
			return fmt.Errorf("%w: %q is table without table payload", ErrInvalidResultItem, r.Title)
		}
	case KindImage:
		if r.Image == nil {
			return fmt.Errorf("%w: %q is image without image payload", ErrInvalidResultItem, r.Title)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidResultItem, r.Kind)
	}
	return nil
}

func (r ResultItem) clone() ResultItem {
	c := r
	if r.Text != nil {
		t := *r.Text
		c.Text = &t
	}
	if r.Table != nil {
		t := *r.Table
		if r.Table.Rows != nil {
			t.Rows = make([][]string, len(r.Table.Rows))
			for i, row := range r.Table.Rows {
				t.Rows[i] = cloneStrings(row)
			}
		}
		c.Table = &t
	}
	if r.Image != nil {
		im := *r.Image
		im.Images = cloneStrings(r.Image.Images)
		c.Image = &im
	}
	return c
}

// resultWire is the flat persisted shape of a result item.
type resultWire struct {
	Title      string     `json:"title"`
	Kind       ResultKind `json:"kind"`
	Content    string     `json:"content"`
	Images     []string   `json:"images"`
	Caption    string     `json:"caption"`
	TableData  [][]string `json:"table_data"`
	TableStyle string     `json:"table_style"`
}

// MarshalJSON writes the flat shape shared by every kind.
func (r ResultItem) MarshalJSON() ([]byte, error) {
	w := resultWire{
		Title:      r.Title,
		Kind:       r.Kind,
		Images:     []string{},
		TableData:  [][]string{},
		TableStyle: DefaultTableStyle,
	}
	switch {
	case r.Text != nil:
		w.Content = r.Text.Content
	case r.Table != nil:
		w.Content = r.Table.Raw
		if r.Table.Rows != nil {
			w.TableData = r.Table.Rows
		}
		if r.Table.Style != "" {
			w.TableStyle = r.Table.Style
		}
	case r.Image != nil:
		if r.Image.Images != nil {
			w.Images = r.Image.Images
		}
		w.Caption = r.Image.Caption
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat shape and populates the payload named by
// kind. Unknown kinds are rejected.
func (r *ResultItem) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind := ResultKind(strings.ToLower(strings.TrimSpace(string(w.Kind))))
	item := ResultItem{Kind: kind, Title: w.Title}
	switch kind {
	case KindText:
		item.Text = &TextResult{Content: w.Content}
	case KindTable:
		style := w.TableStyle
		if style == "" {
			style = DefaultTableStyle
		}
		item.Table = &TableResult{Raw: w.Content, Rows: w.TableData, Style: style}
	case KindImage:
		item.Image = &ImageResult{Images: w.Images, Caption: w.Caption}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidResultItem, w.Kind)
	}
	*r = item
	return nil
}
