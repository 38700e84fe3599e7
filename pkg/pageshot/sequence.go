package pageshot

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	filePrefix = "screenshot-"
	fileExt    = ".png"
)

var numberPattern = regexp.MustCompile(`^screenshot-(\d+)`)

// NextNumber scans dir for previous captures and returns one more than the
// highest sequence number found, or 1 when there are none. Names that do not
// carry a positive number are ignored. Gaps left by deleted files are never
// filled.
func NextNumber(dir string) (int, error) {
	top, _, err := highest(dir)
	if err != nil {
		return 0, err
	}
	return top + 1, nil
}

// LatestWithLabel returns the path of the highest-numbered capture in dir
// that was saved under label, or an empty string if there is none.
func LatestWithLabel(dir, label string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var top int
	var name string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := parseNumber(e.Name())
		if ok && n > top && e.Name() == Filename(n, label) {
			top, name = n, e.Name()
		}
	}

	if name == "" {
		return "", nil
	}
	return filepath.Join(dir, name), nil
}

// Filename builds the capture filename for sequence number n.
func Filename(n int, label string) string {
	label = sanitizeLabel(label)
	if label == "" {
		return filePrefix + strconv.Itoa(n) + fileExt
	}
	return filePrefix + strconv.Itoa(n) + "-" + label + fileExt
}

// parseNumber extracts the sequence number from a capture filename.
func parseNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
		return 0, false
	}

	m := numberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func highest(dir string) (top int, name string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, "", nil
		}
		return 0, "", err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := parseNumber(e.Name())
		if ok && n > top {
			top, name = n, e.Name()
		}
	}
	return top, name, nil
}

func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '-'
		}
		return r
	}, label)
}
