// Package openapi embeds the API description each service serves at /openapi.json.
package openapi

import "embed"

//go:embed assets.json accounts.json world.json
var docs embed.FS

// Document returns the OpenAPI document for service, or nil when there is none.
func Document(service string) []byte {
	b, err := docs.ReadFile(service + ".json")
	if err != nil {
		return nil
	}
	return b
}
