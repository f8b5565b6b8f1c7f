package pdf

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lpdf "github.com/ledongthuc/pdf"
)

// RowOpener is the ledongthuc/pdf backend. Glyphs are grouped into rows by
// baseline, and each row is split into one fragment per run of adjacent
// glyphs, in reading order.
type RowOpener struct{}

// Open parses data and returns the document.
func (RowOpener) Open(data []byte) (doc Document, err error) {
	defer recoverParse(&err)

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf: open: %w", err)
	}
	return &rowDocument{r: r, n: r.NumPage()}, nil
}

type rowDocument struct {
	r *lpdf.Reader
	n int
}

func (d *rowDocument) NumPages() int { return d.n }

func (d *rowDocument) Page(i int) (p Page, err error) {
	if err := checkPage(i, d.n); err != nil {
		return nil, err
	}
	defer recoverParse(&err)

	pg := d.r.Page(i)
	if pg.V.IsNull() {
		return nil, fmt.Errorf("pdf: page %d: missing page object", i)
	}
	return rowPage{p: pg}, nil
}

type rowPage struct {
	p lpdf.Page
}

// wordGap is the horizontal gap between neighbouring glyphs, as a fraction
// of the font size, above which they belong to separate runs.
const wordGap = 0.1

func (p rowPage) Fragments() (frags []Fragment, err error) {
	defer recoverParse(&err)
	return rowFragments(p.p.Content().Text), nil
}

// rowFragments groups positioned glyphs into rows, top to bottom, and emits
// one fragment per run of each row.
func rowFragments(glyphs []lpdf.Text) []Fragment {
	rows := make(map[float64][]lpdf.Text)
	var ys []float64
	for _, g := range glyphs {
		if !visible(g.S) {
			continue
		}
		y := math.Round(g.Y)
		if _, ok := rows[y]; !ok {
			ys = append(ys, y)
		}
		rows[y] = append(rows[y], g)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	var frags []Fragment
	for _, y := range ys {
		row := rows[y]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		frags = append(frags, splitRuns(row)...)
	}
	return frags
}

// splitRuns breaks a row wherever the gap after a glyph exceeds wordGap.
// Explicit spaces never start a new run.
func splitRuns(row []lpdf.Text) []Fragment {
	var (
		frags []Fragment
		sb    strings.Builder
	)
	for i, g := range row {
		if i > 0 {
			prev := row[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > wordGap*math.Max(math.Abs(g.FontSize), 1) && !blank(prev.S) && !blank(g.S) {
				frags = append(frags, Fragment{Text: sb.String(), HasText: true})
				sb.Reset()
			}
		}
		sb.WriteString(g.S)
	}
	return append(frags, Fragment{Text: sb.String(), HasText: true})
}

// visible reports whether s holds anything besides control characters and
// undecodable glyphs.
func visible(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsControl(r) && r != utf8.RuneError
	}) >= 0
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
