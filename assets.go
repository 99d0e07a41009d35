package glrender

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// ErrNoAssets is returned by resource loaders when the Context was created
// without an AssetSource.
var ErrNoAssets = errors.New("glrender: no asset source")

// AssetSource opens read-only application assets by name.
type AssetSource interface {
	Open(name string) (io.ReadCloser, error)
}

// FSAssets serves assets from an fs.FS such as an embed.FS or os.DirFS.
type FSAssets struct {
	FS fs.FS
}

// Open implements AssetSource.
func (a FSAssets) Open(name string) (io.ReadCloser, error) {
	return a.FS.Open(name)
}

// AssetFunc adapts a function to AssetSource.
//
// Example with golang.org/x/mobile/asset:
//
//	assets := glrender.AssetFunc(func(name string) (io.ReadCloser, error) {
//	    return asset.Open(name)
//	})
type AssetFunc func(name string) (io.ReadCloser, error)

// Open implements AssetSource.
func (f AssetFunc) Open(name string) (io.ReadCloser, error) {
	return f(name)
}

// readAsset reads the named asset from the Context's asset source.
func (c *Context) readAsset(name string) ([]byte, error) {
	src := c.assetSource()
	if src == nil {
		return nil, ErrNoAssets
	}
	rc, err := src.Open(name)
	if err != nil {
		return nil, fmt.Errorf("glrender: open asset %q: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("glrender: read asset %q: %w", name, err)
	}
	return data, nil
}
