package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiSpec []byte

var registerDoc sync.Once

// OpenAPIDoc is the validated API document. It also feeds the swagger UI.
type OpenAPIDoc struct {
	spec *openapi3.T
	json []byte
}

// LoadOpenAPI parses and validates the embedded document and registers it
// as the swagger UI source.
func LoadOpenAPI(ctx context.Context) (*OpenAPIDoc, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	raw, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	doc := &OpenAPIDoc{spec: spec, json: raw}
	registerDoc.Do(func() {
		swag.Register(swag.Name, doc)
	})
	return doc, nil
}

// ReadDoc implements swag.Swagger.
func (d *OpenAPIDoc) ReadDoc() string {
	return string(d.json)
}

// Paths lists the documented paths.
func (d *OpenAPIDoc) Paths() []string {
	return d.spec.Paths.InMatchingOrder()
}

func (d *OpenAPIDoc) Serve(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, d.json)
}
