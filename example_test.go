package pdfnarrator_test

import (
	"errors"
	"fmt"
	"log"

	pdfnarrator "github.com/porticus-lab/go-pdf-narrator"
	"github.com/porticus-lab/go-pdf-narrator/internal/pdftest"
	"github.com/porticus-lab/go-pdf-narrator/pdf"
)

func ExampleExtractor_Extract() {
	opener, err := pdf.NewOpener(pdf.BackendStream)
	if err != nil {
		log.Fatal(err)
	}
	ext := pdfnarrator.NewExtractor(opener)

	data := pdftest.Build(pdftest.Text("Hello"), pdftest.Text("World"))
	text, err := ext.Extract(data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q\n", text)
	// Output: "Hello\n\nWorld\n\n"
}

func ExampleExtractionFailure() {
	ext := pdfnarrator.NewExtractor(pdf.StreamOpener{})

	_, err := ext.Extract([]byte("not a pdf"))
	var failure *pdfnarrator.ExtractionFailure
	fmt.Println(errors.As(err, &failure))
	// Output: true
}
