// Package pdfnarrator turns PDF documents into plain text and reads that
// text aloud through a speech-synthesis engine.
//
// # PDF to Text
//
// An [Extractor] reads every page of a document in order, joins each page's
// text fragments with single spaces and appends [PageSeparator] after every
// page:
//
//	opener, err := pdf.NewOpener(pdf.BackendStream) // or pdf.BackendRows
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ext := pdfnarrator.NewExtractor(opener)
//
//	text, err := ext.Extract(data)
//	var failure *pdfnarrator.ExtractionFailure
//	if errors.As(err, &failure) {
//	    // no partial text is returned
//	}
//
// # Narration
//
// A [Narrator] is a two-state machine (Idle, Speaking) over a [Speech]
// engine. [Narrator.Toggle] starts narrating when idle and cancels when
// speaking; natural completion returns it to Idle.
//
// [ChromeSpeech] implements [Speech] with the Web Speech API of a Chrome or
// Chromium instance:
//
//	engine, err := pdfnarrator.NewChromeSpeech(pdfnarrator.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	n := pdfnarrator.NewNarrator(ctx, engine)
//	defer n.Close(ctx)
//	state, err := n.Toggle(ctx, text)
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload].
//
// # Sessions
//
// A [Session] ties the two together the way an interactive shell uses them:
// it holds the current text, rejects concurrent uploads, exports the text
// as [ExportFilename] and narrates it on demand.
//
//	s := pdfnarrator.NewSession(ext, n)
//	if _, err := s.Upload(data); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := s.Export()
//	path, err := res.WriteToDir(".")
package pdfnarrator
