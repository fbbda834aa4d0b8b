package attach

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPreviewSize is the number of previews kept by the default cache.
const DefaultPreviewSize = 128

// Preview is the content of a recently attached file, kept so the editor
// can render it before the file is pushed.
type Preview struct {
	Name    string
	Type    string
	Content []byte
}

// PreviewCache stores previews by repository-relative path.
type PreviewCache interface {
	Add(path string, preview Preview)
	Get(path string) (Preview, bool)
}

// LRUPreviews is a PreviewCache that evicts the least recently used entry
// once full.
type LRUPreviews struct {
	cache *lru.Cache[string, Preview]
}

var _ PreviewCache = (*LRUPreviews)(nil)

// NewLRUPreviews creates a cache holding up to size previews. A size below
// one uses DefaultPreviewSize.
func NewLRUPreviews(size int) *LRUPreviews {
	if size < 1 {
		size = DefaultPreviewSize
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[string, Preview](size)
	return &LRUPreviews{cache: c}
}

// Add records preview under path.
func (p *LRUPreviews) Add(path string, preview Preview) {
	p.cache.Add(path, preview)
}

// Get returns the preview recorded under path.
func (p *LRUPreviews) Get(path string) (Preview, bool) {
	return p.cache.Get(path)
}

// Len returns the number of cached previews.
func (p *LRUPreviews) Len() int {
	return p.cache.Len()
}
