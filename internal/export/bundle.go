package export

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Category groups bundle files by the export step that produced them.
type Category string

const (
	CategoryPage    Category = "page"
	CategoryIndex   Category = "index"
	CategoryAsset   Category = "asset"
	CategorySitemap Category = "sitemap"
	CategoryRobots  Category = "robots"
)

// File is one archive entry.
type File struct {
	Path        string
	Content     []byte
	Category    Category
	ContentType string
	Checksum    string
}

// Bundle is the set of files produced by an export. Writing the same path
// twice replaces the earlier content.
type Bundle struct {
	Name  string
	files map[string]File
}

func newBundle(name string) *Bundle {
	return &Bundle{Name: name, files: map[string]File{}}
}

// Put stores content at path, replacing any previous entry.
func (b *Bundle) Put(path string, content []byte, category Category, contentType string) {
	b.files[path] = File{
		Path:        path,
		Content:     content,
		Category:    category,
		ContentType: contentType,
		Checksum:    computeHash(content),
	}
}

// Get returns the file stored at path.
func (b *Bundle) Get(path string) (File, bool) {
	file, ok := b.files[path]
	return file, ok
}

// Len reports the number of files.
func (b *Bundle) Len() int {
	return len(b.files)
}

// Files returns every file ordered by path.
func (b *Bundle) Files() []File {
	out := make([]File, 0, len(b.files))
	for _, file := range b.files {
		out = append(out, file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns every path in order.
func (b *Bundle) Paths() []string {
	files := b.Files()
	out := make([]string, len(files))
	for i, file := range files {
		out[i] = file.Path
	}
	return out
}

// Count returns the number of files in category.
func (b *Bundle) Count(category Category) int {
	total := 0
	for _, file := range b.files {
		if file.Category == category {
			total++
		}
	}
	return total
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
