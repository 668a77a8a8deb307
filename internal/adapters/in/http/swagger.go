package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

const swaggerInstance = "bytebite"

// swaggerDocs guards the process wide swag registry.
var swaggerDocs swaggerRegistry

// swaggerRegistry registers one document under swaggerInstance and
// remembers the outcome of that single attempt.
type swaggerRegistry struct {
	once sync.Once
	err  error
}

func (r *swaggerRegistry) register(encode func() ([]byte, error)) error {
	r.once.Do(func() {
		raw, err := encode()
		if err != nil {
			r.err = fmt.Errorf("encode swagger document: %w", err)
			return
		}
		swag.Register(swaggerInstance, swaggerDoc{doc: raw})
	})
	return r.err
}

type swaggerDoc struct {
	doc []byte
}

func (d swaggerDoc) ReadDoc() string {
	return string(d.doc)
}

// swaggerHandler serves the swagger UI for doc. The document is registered
// on the first call only.
func swaggerHandler(doc *openapi3.T) (echo.HandlerFunc, error) {
	if err := swaggerDocs.register(func() ([]byte, error) { return json.Marshal(doc) }); err != nil {
		return nil, err
	}
	return echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(swaggerInstance)), nil
}
