package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"strings"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// LoadCensoredWords reads every embedded word list, one word per line,
// skipping blanks and # comments. Duplicates across languages are folded.
func LoadCensoredWords() ([]string, error) {
	entries, err := censoredFS.ReadDir("censored")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var words []string
	for _, entry := range entries {
		data, err := censoredFS.ReadFile("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return words, nil
}
