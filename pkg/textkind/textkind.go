// Package textkind classifies indexed texts for presentation.
//
// Search output is line oriented for text and offset oriented for binary
// content, and the indexer logs a language hint for each source. Both
// decisions use go-enry on a bounded prefix of the content.
package textkind

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// sampleSize bounds how much content is inspected.
const sampleSize = 16 * 1024

// Unknown is the language reported when detection fails.
const Unknown = "text"

// Kind is the presentation class of a text.
type Kind int

const (
	// Text content is printed line by line.
	Text Kind = iota

	// Binary content is printed as offsets.
	Binary
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Binary {
		return "binary"
	}
	return "text"
}

// Classify returns Binary when content holds a NUL byte near its start.
func Classify(content []byte) Kind {
	if enry.IsBinary(sample(content)) {
		return Binary
	}
	return Text
}

// Language guesses the language of content. The file name is tried first,
// then a shebang line; anything else is Unknown.
func Language(path string, content []byte) string {
	head := sample(content)
	if Classify(head) == Binary {
		return Unknown
	}

	if path != "" {
		if lang := enry.GetLanguage(filepath.Base(path), head); lang != "" {
			return normalize(lang)
		}
	}

	if lang, safe := enry.GetLanguageByShebang(head); safe {
		return normalize(lang)
	}

	return Unknown
}

func sample(content []byte) []byte {
	if len(content) > sampleSize {
		return content[:sampleSize]
	}
	return content
}

func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "Text":
		return Unknown
	default:
		return strings.ToLower(lang)
	}
}
