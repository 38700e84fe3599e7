package pageshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/root4loot/goutils/log"
)

// maxSaveAttempts bounds how often Save recomputes the sequence number after
// losing a race for a filename.
const maxSaveAttempts = 16

// ErrNoImage is returned when there is nothing to write.
var ErrNoImage = errors.New("empty image")

// EnsureDir creates dir and its parents if missing. Existing content is left
// untouched.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create output folder %q: %w", dir, err)
	}
	return nil
}

// Save writes image to the next free capture filename in dir and returns the
// path and sequence number used. Files are created exclusively, so two
// concurrent invocations never overwrite each other.
func Save(dir, label string, image []byte) (path string, number int, err error) {
	if len(image) == 0 {
		return "", 0, ErrNoImage
	}

	if err = EnsureDir(dir); err != nil {
		return "", 0, err
	}

	var file *os.File
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		number, err = NextNumber(dir)
		if err != nil {
			return "", 0, fmt.Errorf("scan output folder %q: %w", dir, err)
		}

		path = filepath.Join(dir, Filename(number, label))
		file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			log.Debugf("%s was taken, rescanning", path)
			continue
		}
		if err != nil {
			return "", 0, err
		}

		if err = writeAndClose(file, image); err != nil {
			os.Remove(path)
			return "", 0, err
		}
		return path, number, nil
	}

	return "", 0, fmt.Errorf("no free filename in %q after %d attempts", dir, maxSaveAttempts)
}

func writeAndClose(file *os.File, data []byte) error {
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
