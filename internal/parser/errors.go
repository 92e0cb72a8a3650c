package parser

import "fmt"

// MissingSectionError reports an absent required top-level section.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("cv: required section <%s> not found", e.Section)
}

// MissingFieldError reports an absent required field. Element and Index
// locate the record (e.g. the second <job> of experience); Index is -1 for
// single records such as personalInfo.
type MissingFieldError struct {
	Section string
	Element string
	Index   int
	Field   string
}

func (e *MissingFieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("cv: required field <%s> not found in <%s>", e.Field, e.Element)
	}
	return fmt.Sprintf("cv: required field <%s> not found in <%s> #%d of %s", e.Field, e.Element, e.Index+1, e.Section)
}

// XMLParseError carries the decoder diagnostic for a document that is not
// well-formed or does not have a <cv> root.
type XMLParseError struct {
	Line       int
	Diagnostic string
	Err        error
}

func (e *XMLParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse XML (line %d): %s", e.Line, e.Diagnostic)
	}
	return "failed to parse XML: " + e.Diagnostic
}

func (e *XMLParseError) Unwrap() error { return e.Err }
