package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var tuningSchemaJSON []byte

var (
	tuningSchemaOnce sync.Once
	tuningSchema     *jsonschema.Schema
	tuningSchemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	tuningSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("tuning.schema.json", bytes.NewReader(tuningSchemaJSON)); err != nil {
			tuningSchemaErr = err
			return
		}
		tuningSchema, tuningSchemaErr = c.Compile("tuning.schema.json")
	})
	return tuningSchema, tuningSchemaErr
}

// validateDocument checks the YAML document against tuning.schema.json. The
// document goes through JSON first so the validator sees plain JSON values.
func validateDocument(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var y any
	if err := yaml.Unmarshal(raw, &y); err != nil {
		return err
	}
	if y == nil {
		return fmt.Errorf("empty document")
	}
	b, err := json.Marshal(y)
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
