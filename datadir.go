package pagebook

import (
	"os"
	"path/filepath"
	"sync"
)

// dataDirSuffix names the directory created under the user's home
// directory the first time the core needs somewhere to put books.
const dataDirSuffix = ".experimental-db"

var (
	dataDirOnce sync.Once
	dataDirVal  string
	dataDirErr  error
)

// DefaultDataDir resolves the process-wide data directory root, caching
// the result. It fails only if the home directory cannot be determined.
func DefaultDataDir() (string, error) {
	dataDirOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			dataDirErr = WrapIoError("$HOME", err)
			return
		}
		dataDirVal = filepath.Join(home, dataDirSuffix)
	})
	return dataDirVal, dataDirErr
}

// booksDir returns "<dataDir>/books/<id>".
func booksDir(dataDir string, id BookId) string {
	return filepath.Join(dataDir, "books", id.String())
}

// pagesDir returns "<dataDir>/books/<id>/pages".
func pagesDir(dataDir string, id BookId) string {
	return filepath.Join(booksDir(dataDir, id), "pages")
}

// pageFilePath returns "<dataDir>/books/<id>/pages/<pageIndex>".
func pageFilePath(dataDir string, id BookId, idx PageIndex) string {
	return filepath.Join(pagesDir(dataDir, id), idx.String())
}
