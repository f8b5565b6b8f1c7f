package pdf

import "fmt"

// PageSize holds the media box dimensions of a page in points.
type PageSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Info holds document-level metadata.
type Info struct {
	Version string     `json:"version" yaml:"version"`
	Pages   int        `json:"pages" yaml:"pages"`
	Sizes   []PageSize `json:"sizes" yaml:"sizes"`
}

// Inspect reads data with pdfcpu and reports the document's version, page
// count and page dimensions.
func Inspect(data []byte) (*Info, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("pdf: page dimensions: %w", err)
	}

	info := &Info{
		Version: ctx.VersionString(),
		Pages:   ctx.PageCount,
		Sizes:   make([]PageSize, 0, len(dims)),
	}
	for _, d := range dims {
		info.Sizes = append(info.Sizes, PageSize{Width: d.Width, Height: d.Height})
	}
	return info, nil
}
