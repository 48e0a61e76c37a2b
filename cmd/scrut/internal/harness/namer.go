package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// UniqueNamer hands out names that are both not-yet-used within a process
// and don't already exist as an entry in directory, appending "-1", "-2", ...
// until both hold. Grounded on
// original_source/src/bin/utils/nameutil.rs's UniqueNamer.
type UniqueNamer struct {
	directory string
	used      map[string]bool
}

// NewUniqueNamer returns a UniqueNamer whose collision check also consults
// the filesystem entries of directory.
func NewUniqueNamer(directory string) *UniqueNamer {
	return &UniqueNamer{directory: directory, used: map[string]bool{}}
}

// NextName returns name itself if it is free, else the first
// "name-<counter>" that is.
func (n *UniqueNamer) NextName(name string) string {
	if !n.used[name] && !n.exists(name) {
		n.used[name] = true
		return name
	}
	counter := 1
	next := fmt.Sprintf("%s-%d", name, counter)
	for n.used[next] || n.exists(next) {
		counter++
		next = fmt.Sprintf("%s-%d", name, counter)
	}
	n.used[next] = true
	return next
}

func (n *UniqueNamer) exists(name string) bool {
	_, err := os.Stat(filepath.Join(n.directory, name))
	return err == nil
}
