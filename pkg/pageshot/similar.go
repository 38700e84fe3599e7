package pageshot

import (
	"fmt"

	"github.com/glaslos/ssdeep"
	"github.com/root4loot/goutils/log"
)

// Similarity returns the ssdeep match score (0-100) between two images.
func Similarity(a, b []byte) (int, error) {
	hashA, err := ssdeep.FuzzyBytes(a)
	if err != nil {
		return 0, fmt.Errorf("hash image: %w", err)
	}

	hashB, err := ssdeep.FuzzyBytes(b)
	if err != nil {
		return 0, fmt.Errorf("hash image: %w", err)
	}

	return ssdeep.Distance(hashA, hashB)
}

// IsSimilar reports whether a and b score at or above threshold. Images that
// cannot be hashed are never considered similar.
func IsSimilar(a, b []byte, threshold int) bool {
	score, err := Similarity(a, b)
	if err != nil {
		log.Debugf("Could not compare images: %v", err)
		return false
	}

	log.Debugf("Similarity score %d (threshold %d)", score, threshold)
	return score >= threshold
}
