// Package md2docx converts Markdown documents to Word (.docx) using pandoc.
//
// # Quick Start
//
//	conv, err := md2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.StyledConvert(ctx, "report.md", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("written:", res.OutputPath) // report.docx
//
// # Strategies
//
// BasicConvert runs pandoc without a template. StyledConvert adds
// --reference-doc with the configured style template. When the template
// does not exist, StyledConvert prints guidance to the notice writer
// (os.Stderr unless WithOutput says otherwise) and delegates to BasicConvert
// with the same arguments; a missing template is never an error.
//
// Before pandoc runs, every em dash (U+2014) in the document is replaced
// with '-'. Table delimiter rows typed with em dashes then parse as tables.
// The replacement applies to the whole document, prose included.
//
// # Style Template
//
// GenerateTemplate writes pandoc's built-in reference.docx, which the user
// then edits in Word (see TemplateGuide). The default location is
// DefaultTemplatePath(); override it with WithTemplatePath.
//
// # Configuration
//
//	conv, err := md2docx.NewConverter(
//	    md2docx.WithBinary("/opt/pandoc/bin/pandoc"),
//	    md2docx.WithTemplatePath("styles/reference.docx"),
//	    md2docx.WithTimeout(2 * time.Minute),
//	    md2docx.WithOutput(os.Stdout),
//	    md2docx.WithVerbose(true),
//	)
//
// Per-conversion metadata is passed via Request:
//
//	res, err := conv.Convert(ctx, md2docx.Request{
//	    Source:   "report.md",
//	    Styled:   true,
//	    Metadata: map[string]string{"title": "Q3 Report", "author": "Ops"},
//	})
//
// # Error Handling
//
// Errors match sentinel values with errors.Is:
//
//   - ErrSourceNotFound: the source file does not exist; pandoc is not run
//   - ErrConverterNotFound: pandoc is not installed or not on PATH
//   - ErrConversionFailed: pandoc exited non-zero; errors.As with
//     *ConversionError gives the exit code and decoded stderr
//   - ErrTimeout: the WithTimeout deadline expired and pandoc was killed
//   - ErrUnexpected: read failures, output directory failures, recovered panics
//
// # Concurrency
//
// A Converter is immutable after construction and safe for concurrent use.
// Each call spawns one pandoc process.
package md2docx
