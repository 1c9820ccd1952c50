// Package validation checks requests against the JSON schemas embedded in
// schemas/ before they reach a handler.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	apierrors "github.com/yukikurage/note-api/internal/errors"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	baseURL = "mem:///schemas/"
	// defsName holds shared definitions and is not a request schema itself.
	defsName = "defs"
)

// Request schema names.
const (
	TodoCreate        = "todo-create"
	TodoList          = "todo-list"
	TodoUpdate        = "todo-update"
	TodoDelete        = "todo-delete"
	TodoLabel         = "todo-label"
	IDParam           = "id-param"
	LabelCreate       = "label-create"
	LabelUpdate       = "label-update"
	LabelDelete       = "label-delete"
	UserOnboard       = "user-onboard"
	UserLogin         = "user-login"
	UserUpdate        = "user-update"
	UserAccountStatus = "user-account-status"
)

// FieldError is one schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator holds the compiled request schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(baseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", entry.Name(), err)
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		if name == defsName {
			continue
		}
		schema, err := compiler.Compile(baseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks instance against the named schema and returns every
// violation, sorted by field.
func (v *Validator) Validate(name string, instance any) ([]FieldError, error) {
	schema, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	err := schema.Validate(instance)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	var fieldErrors []FieldError
	collect(&fieldErrors, ve)
	sort.SliceStable(fieldErrors, func(i, j int) bool {
		return fieldErrors[i].Field < fieldErrors[j].Field
	})
	return fieldErrors, nil
}

// Middleware validates the merge of the JSON body, query values and path
// params. Path params win over query values, which win over body fields.
// The body is restored for the handler.
func (v *Validator) Middleware(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		instance, err := requestInstance(c)
		if err != nil {
			apierrors.ValidationFailed(c, "Validation failed", []FieldError{{Message: err.Error()}})
			return
		}

		fieldErrors, err := v.Validate(name, instance)
		if err != nil {
			apierrors.InternalError(c, err.Error())
			return
		}
		if len(fieldErrors) > 0 {
			apierrors.ValidationFailed(c, summarize(fieldErrors), fieldErrors)
			return
		}

		c.Next()
	}
}

func requestInstance(c *gin.Context) (map[string]any, error) {
	instance := map[string]any{}

	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body")
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(data))

		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &instance); err != nil {
				return nil, fmt.Errorf("request body must be a JSON object")
			}
		}
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			instance[key] = values[len(values)-1]
		}
	}

	for _, p := range c.Params {
		instance[p.Key] = p.Value
	}

	return instance, nil
}

func collect(out *[]FieldError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, FieldError{
			Field:   fieldName(err),
			Message: message(err),
		})
		return
	}

	for _, cause := range err.Causes {
		collect(out, cause)
	}
}

// fieldName turns the instance pointer into a dotted path. Missing required
// properties are reported on the object, so the name is taken from the message.
func fieldName(err *jsonschema.ValidationError) string {
	ptr := strings.TrimPrefix(err.InstanceLocation, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" && strings.HasSuffix(err.KeywordLocation, "/required") {
		if start := strings.Index(err.Message, "'"); start >= 0 {
			if end := strings.Index(err.Message[start+1:], "'"); end >= 0 {
				return err.Message[start+1 : start+1+end]
			}
		}
	}
	return strings.ReplaceAll(ptr, "/", ".")
}

func message(err *jsonschema.ValidationError) string {
	switch {
	case strings.HasSuffix(err.KeywordLocation, "/pattern"):
		return "must be a valid 24-character hex or 36-character UUID"
	case strings.HasSuffix(err.KeywordLocation, "/required"):
		return "is required"
	case strings.HasSuffix(err.KeywordLocation, "/additionalProperties"):
		return strings.Replace(err.Message, "additionalProperties", "unknown field", 1)
	}
	return err.Message
}

func summarize(fieldErrors []FieldError) string {
	first := fieldErrors[0]
	if first.Field == "" {
		return first.Message
	}
	return first.Field + " " + first.Message
}
