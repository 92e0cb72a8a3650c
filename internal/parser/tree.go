package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// element is a minimal DOM node: enough to look up direct children by name,
// read attributes and collect text content.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	// parts interleaves character data and child elements in document
	// order so text() can reproduce textContent.
	parts []part
}

type part struct {
	text  string
	child *element
}

// child returns the first direct child with the given local name.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// all returns the direct children with the given local name, in order.
func (e *element) all(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (e *element) attr(name string) string {
	return e.attrs[name]
}

// text is the concatenated character data of the element and all its
// descendants, trimmed.
func (e *element) text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return strings.TrimSpace(sb.String())
}

func (e *element) writeText(sb *strings.Builder) {
	for _, p := range e.parts {
		if p.child != nil {
			p.child.writeText(sb)
			continue
		}
		sb.WriteString(p.text)
	}
}

// buildTree decodes data into an element tree and returns the root.
func buildTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapSyntax(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &XMLParseError{Diagnostic: "multiple root elements"}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
				parent.parts = append(parent.parts, part{child: el})
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.parts = append(top.parts, part{text: string(t)})
			}
		}
	}
	if len(stack) > 0 {
		return nil, &XMLParseError{Diagnostic: "unexpected EOF: unclosed element <" + stack[len(stack)-1].name + ">"}
	}
	if root == nil {
		return nil, &XMLParseError{Diagnostic: "document has no root element"}
	}
	return root, nil
}

func wrapSyntax(err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &XMLParseError{Line: se.Line, Diagnostic: se.Msg, Err: err}
	}
	return &XMLParseError{Diagnostic: err.Error(), Err: err}
}
