package indexer

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

type fakeDirEntry struct {
	fs.DirEntry
	name  string
	isDir bool
}

func (f fakeDirEntry) Name() string { return f.name }
func (f fakeDirEntry) IsDir() bool  { return f.isDir }

func TestShouldSkip_BuildAndVCSDirs(t *testing.T) {
	for _, name := range []string{"node_modules", ".git", "vendor", "build", ".cache"} {
		assert.True(t, shouldSkip(fakeDirEntry{name: name, isDir: true}), name)
	}
}

func TestShouldSkip_HiddenDir(t *testing.T) {
	assert.True(t, shouldSkip(fakeDirEntry{name: ".hidden", isDir: true}))
}

func TestShouldSkip_OrdinaryDir(t *testing.T) {
	assert.False(t, shouldSkip(fakeDirEntry{name: "papers", isDir: true}))
}

func TestShouldSkip_HiddenFile(t *testing.T) {
	assert.True(t, shouldSkip(fakeDirEntry{name: ".DS_Store", isDir: false}))
}

func TestShouldSkip_OrdinaryFile(t *testing.T) {
	assert.False(t, shouldSkip(fakeDirEntry{name: "document.pdf", isDir: false}))
}

func TestShouldSkip_UsableWithRealFS(t *testing.T) {
	fsys := fstest.MapFS{
		"build/out.pdf":      {Data: []byte{}},
		"papers/a.pdf":       {Data: []byte{}},
		".git/HEAD":          {Data: []byte{}},
		".hidden/ignored.pdf": {Data: []byte{}},
	}

	var visited []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != "." && shouldSkip(d) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if !d.IsDir() {
			visited = append(visited, path)
		}

		return nil
	})

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"papers/a.pdf"}, visited)
}
