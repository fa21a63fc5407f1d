package graphics

import (
	"hdr-scene/internal/gpu"
)

type textureKey struct {
	path  string
	gamma bool
}

// TextureCache loads each file once per color space.
// Models that share a texture file (glTF scenes often do) get the same handle.
type TextureCache struct {
	dev      gpu.Device
	textures map[textureKey]uint32
}

// NewTextureCache returns an empty cache uploading through dev
func NewTextureCache(dev gpu.Device) *TextureCache {
	return &TextureCache{dev: dev, textures: make(map[textureKey]uint32)}
}

// Get returns a cached texture for path, loading it on first use.
// Failed loads are not cached so a later call can retry.
func (c *TextureCache) Get(path string, opts TextureOptions) (uint32, error) {
	key := textureKey{path: path, gamma: opts.Gamma}
	if tex, ok := c.textures[key]; ok {
		return tex, nil
	}

	tex, err := LoadTexture2D(c.dev, path, opts)
	if err != nil {
		return 0, err
	}

	c.textures[key] = tex
	return tex, nil
}

// GetBytes is Get for images embedded in another file; key identifies the image across calls
func (c *TextureCache) GetBytes(key string, data []byte, opts TextureOptions) (uint32, error) {
	k := textureKey{path: key, gamma: opts.Gamma}
	if tex, ok := c.textures[k]; ok {
		return tex, nil
	}

	img, err := DecodeImageBytes(key, data)
	if err != nil {
		return 0, err
	}

	tex := UploadTexture2D(c.dev, img, opts)
	c.textures[k] = tex
	return tex, nil
}

// Len returns the number of cached textures
func (c *TextureCache) Len() int {
	return len(c.textures)
}

// Release deletes every cached texture
func (c *TextureCache) Release() {
	for key, tex := range c.textures {
		c.dev.DeleteTexture(tex)
		delete(c.textures, key)
	}
}
