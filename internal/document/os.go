package document

import (
	"io/fs"
	"os"

	"github.com/ezerfernandes/mdplay/internal/filelock"
)

// OS is the host filesystem. Writes replace the file atomically so an editor
// watching the document never observes a partial write.
type OS struct{}

func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return filelock.AtomicWrite(name, data, perm)
}
