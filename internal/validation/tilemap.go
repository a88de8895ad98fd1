package validation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed tilemap.schema.json
var tileMapSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(tileMapSchema)

// ErrInvalidJSON reports a document that does not parse at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// TileMap checks doc against the tile-map schema and returns at most five
// violations joined into one error.
func TileMap(doc []byte) error {
	if !json.Valid(doc) {
		return ErrInvalidJSON
	}
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate tile map: %w", err)
	}
	if res.Valid() {
		return nil
	}
	var msgs []string
	for i, e := range res.Errors() {
		if i >= 5 {
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid map structure: %s", strings.Join(msgs, "; "))
}
