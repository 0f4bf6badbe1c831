package pipeline

import (
	"github.com/go-enry/go-enry/v2"
)

// DetectLanguage guesses the language of a generated file from its path and
// content. It returns "" when nothing matches.
func DetectLanguage(path, content string) string {
	if path == "" {
		return ""
	}

	if language := enry.GetLanguage(path, []byte(content)); language != "" {
		return language
	}

	// Content classification can give up on tiny snippets
	if language, _ := enry.GetLanguageByExtension(path); language != "" {
		return language
	}

	language, _ := enry.GetLanguageByFilename(path)
	return language
}
