package blockmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads face templates from an assets directory and caches them by path.
type Loader struct {
	assetsPath string
	decoder    Decoder
	cache      map[string]*FaceTemplate
}

// NewLoader returns a loader rooted at assetsPath. A nil decoder selects OBJDecoder.
func NewLoader(assetsPath string, decoder Decoder) *Loader {
	if decoder == nil {
		decoder = OBJDecoder{}
	}
	return &Loader{
		assetsPath: assetsPath,
		decoder:    decoder,
		cache:      make(map[string]*FaceTemplate),
	}
}

// Load reads the model at path (relative to the assets directory unless
// absolute). All six faces must decode or nothing is returned.
func (l *Loader) Load(path string) (*FaceTemplate, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.assetsPath, path)
	}
	full = filepath.Clean(full)

	if t, ok := l.cache[full]; ok {
		return t, nil
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	faces, err := l.decoder.DecodeFaces(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	t := &FaceTemplate{
		Name:  strings.TrimSuffix(filepath.Base(full), filepath.Ext(full)),
		Faces: faces,
	}
	l.cache[full] = t
	return t, nil
}
