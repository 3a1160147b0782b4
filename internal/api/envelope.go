package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only when the envelope structure itself changes.
const envelopeVersion = 1

type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   any  `json:"error"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope:
// {v, success, data} on success, {v, success, error} on failure. Clients
// branch on success before touching data.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{V: envelopeVersion, Success: false, Error: apiErr}, nil
	}
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		return &errorEnvelope{V: envelopeVersion, Success: false, Error: v}, nil
	}
	return &successEnvelope{V: envelopeVersion, Success: true, Data: v}, nil
}
