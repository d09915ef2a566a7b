package testutil

import "sync"

// FileSet is an in-memory stand-in for the filesystem existence check.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FileSet struct {
	mu     sync.Mutex
	paths  map[string]bool
	checks int
}

// NewFileSet creates a FileSet containing paths.
func NewFileSet(paths ...string) *FileSet {
	fs := &FileSet{paths: make(map[string]bool, len(paths))}
	for _, p := range paths {
		fs.paths[p] = true
	}
	return fs
}

// Exists reports whether path was added. It has the signature expected by
// filter.Options.Exists.
func (fs *FileSet) Exists(path string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.checks++
	return fs.paths[path]
}

// Add adds a path.
func (fs *FileSet) Add(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.paths[path] = true
}

// Checks returns how many times Exists was called.
func (fs *FileSet) Checks() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.checks
}
