package model

import (
	"fmt"
	"strings"

	"cv-site/templates"

	"github.com/xeipuuv/gojsonschema"
)

var schemaLoader = gojsonschema.NewBytesLoader(templates.Schema)

// SchemaError lists every violation reported for a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks the JSON projection of cv against cv.schema.json.
func Validate(cv *CV) error {
	if cv == nil {
		return fmt.Errorf("validate: nil cv")
	}
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(cv))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}
