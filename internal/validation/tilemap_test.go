package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestTileMapAcceptsMinimalDocument(t *testing.T) {
	doc := `{"layers":[],"tilesets":[{"firstgid":1}],"width":16,"height":9,"orientation":"orthogonal"}`
	if err := TileMap([]byte(doc)); err != nil {
		t.Fatalf("TileMap: %v", err)
	}
}

func TestTileMapRejectsMissingKeys(t *testing.T) {
	err := TileMap([]byte(`{"layers":[],"width":16}`))
	if err == nil {
		t.Fatalf("TileMap: want error")
	}
	for _, key := range []string{"tilesets", "height"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("TileMap error should mention %q: %v", key, err)
		}
	}
}

func TestTileMapRejectsGarbage(t *testing.T) {
	if err := TileMap([]byte("{not json")); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("TileMap: want ErrInvalidJSON got=%v", err)
	}
	if err := TileMap([]byte(`[1,2,3]`)); err == nil {
		t.Fatalf("TileMap(array): want error")
	}
}

func TestTileMapOnlyRequiresKeys(t *testing.T) {
	doc := `{"layers":"bg","tilesets":null,"width":10.5,"height":-1}`
	if err := TileMap([]byte(doc)); err != nil {
		t.Fatalf("TileMap: keys present, want nil got=%v", err)
	}
}
