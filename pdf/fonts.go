package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// pageFonts resolves the font resources of page nr, keyed by resource name.
// Fonts that cannot be resolved are left out; strings shown with them fall
// back to decodeString.
func pageFonts(ctx *model.Context, nr int) map[string]*fontEncoding {
	page, _, inherited, err := ctx.PageDict(nr, true)
	if err != nil {
		return nil
	}
	var res types.Dict
	if page != nil {
		res, _ = ctx.DereferenceDict(page["Resources"])
	}
	if res == nil && inherited != nil {
		res = inherited.Resources
	}
	fontRes, err := ctx.DereferenceDict(res["Font"])
	if err != nil || len(fontRes) == 0 {
		return nil
	}

	fonts := make(map[string]*fontEncoding, len(fontRes))
	for name, obj := range fontRes {
		d, err := ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			continue
		}
		fonts[name] = fontDictEncoding(ctx, d)
	}
	return fonts
}

// fontDictEncoding builds the encoding of one font dictionary.
func fontDictEncoding(ctx *model.Context, d types.Dict) *fontEncoding {
	subtype := ""
	if s := d.NameEntry("Subtype"); s != nil {
		subtype = *s
	}
	base := "WinAnsiEncoding"
	if subtype == "Type1" || subtype == "MMType1" {
		base = "StandardEncoding"
	}

	var diffs types.Array
	if obj, err := ctx.Dereference(d["Encoding"]); err == nil {
		switch enc := obj.(type) {
		case types.Name:
			base = string(enc)
		case types.Dict:
			if b := enc.NameEntry("BaseEncoding"); b != nil {
				base = *b
			}
			diffs, _ = ctx.DereferenceArray(enc["Differences"])
		}
	}

	e := newFontEncoding(subtype != "Type0", base)
	code := 0
	for _, obj := range diffs {
		switch v := obj.(type) {
		case types.Integer:
			code = int(v)
		case types.Name:
			e.setGlyph(code, string(v))
			code++
		}
	}

	if obj, err := ctx.Dereference(d["ToUnicode"]); err == nil {
		if sd, ok := obj.(types.StreamDict); ok {
			if sd.Content == nil {
				err = sd.Decode()
			}
			if err == nil {
				e.parseCMap(sd.Content)
			}
		}
	}
	return e
}
