package catalogs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed cell_definitions.schema.json
var definitionsSchemaJSON []byte

var (
	definitionsSchemaOnce sync.Once
	definitionsSchema     *jsonschema.Schema
	definitionsSchemaErr  error
)

func compiledDefinitionsSchema() (*jsonschema.Schema, error) {
	definitionsSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("cell_definitions.schema.json", bytes.NewReader(definitionsSchemaJSON)); err != nil {
			definitionsSchemaErr = err
			return
		}
		definitionsSchema, definitionsSchemaErr = c.Compile("cell_definitions.schema.json")
	})
	return definitionsSchema, definitionsSchemaErr
}

func validateDefinitions(raw []byte) error {
	s, err := compiledDefinitionsSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
