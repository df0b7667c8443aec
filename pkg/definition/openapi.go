package definition

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrender/pkg/form"
)

// SubmitControlName is the name of the submit button appended to forms built
// from OpenAPI operations.
const SubmitControlName = "submit"

var requestMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromOpenAPI converts every operation with an object request body into a
// form definition. Forms are keyed by operationId, or "<method>:<path>" when
// the operation has none.
func FromOpenAPI(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("definition: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("definition: load openapi: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("definition: validate openapi: %w", err)
	}

	doc := &Document{Forms: make(map[string]FormSpec)}
	if spec.Paths == nil {
		return doc, nil
	}
	paths := spec.Paths.Map()
	names := make([]string, 0, len(paths))
	for p := range paths {
		names = append(names, p)
	}
	sort.Strings(names)

	for _, p := range names {
		item := paths[p]
		if item == nil {
			continue
		}
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodGet, http.MethodDelete} {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			schema := requestSchema(op.RequestBody)
			if schema == nil || !schema.Type.Is(openapi3.TypeObject) {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + p
			}
			doc.Forms[id] = formFromSchema(method, p, schema)
		}
	}
	return doc, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range requestMediaTypes {
		if mt := body.Value.Content.Get(mediaType); mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func formFromSchema(method, path string, schema *openapi3.Schema) FormSpec {
	spec := FormSpec{Method: method, Action: path}

	required := toSet(schema.Required)
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		control := controlFromSchema(name, ref.Value)
		control.Required = required[strings.ToLower(name)]
		spec.Controls = append(spec.Controls, control)
	}
	spec.Controls = append(spec.Controls, ControlSpec{Name: SubmitControlName, Type: "submit", Caption: "Submit"})
	return spec
}

func controlFromSchema(name string, schema *openapi3.Schema) ControlSpec {
	control := ControlSpec{
		Name:  name,
		Label: schema.Title,
		Value: schema.Default,
	}
	if control.Label == "" {
		control.Label = name
	}
	control.Options.Help = schema.Description

	if len(schema.Enum) > 0 {
		control.Type = "select"
		control.Items = enumItems(schema.Enum)
		return control
	}

	switch {
	case schema.Type.Is(openapi3.TypeBoolean):
		control.Type = "checkbox"
		control.Caption = control.Label
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		control.Type = form.InputNumber
	case schema.Type.Is(openapi3.TypeArray):
		control.Type = "checkbox-list"
		if schema.Items != nil && schema.Items.Value != nil {
			control.Items = enumItems(schema.Items.Value.Enum)
		}
		if len(control.Items) == 0 {
			control.Type = "textarea"
		}
	default:
		control.Type = stringType(schema.Format)
		if schema.MaxLength != nil {
			control.MaxLength = int(*schema.MaxLength)
		}
	}
	return control
}

func stringType(format string) string {
	switch format {
	case "email":
		return form.InputEmail
	case "password":
		return form.InputPassword
	case "date":
		return form.InputDate
	case "uri", "url":
		return form.InputURL
	case "binary":
		return "upload"
	case "textarea":
		return "textarea"
	default:
		return "text"
	}
}

func enumItems(values []any) []form.Item {
	items := make([]form.Item, 0, len(values))
	for _, value := range values {
		s := fmt.Sprint(value)
		items = append(items, form.Item{Value: s, Label: s})
	}
	return items
}
