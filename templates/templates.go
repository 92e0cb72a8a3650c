// Package templates holds the page template, stylesheet and JSON schema
// shipped inside the binaries.
package templates

import (
	_ "embed"
)

//go:embed cv.schema.json
var Schema []byte

//go:embed page.html
var Page string

//go:embed style.css
var Style string
