package config

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/valen-cli/valen/internal/messages"
)

// ParseDotenv reads .env content into a key-value map.
// Blank lines, comments and an optional `export ` prefix are accepted.
func ParseDotenv(content string) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseDotenvLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.DotenvLineErrorFmt, lineNo, err)
		}
		if ok {
			env[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.DotenvReadFailedFmt, err)
	}
	return env, nil
}

// UpsertDotenv sets key to value in .env content. The first existing
// assignment is replaced in place and later duplicates are dropped.
func UpsertDotenv(content string, key string, value string) string {
	assignment := key + "=" + quoteDotenvValue(value)
	var out []string
	replaced := false
	if content != "" {
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			k, _, ok, err := parseDotenvLine(line)
			if err == nil && ok && k == key {
				if replaced {
					continue
				}
				line = assignment
				replaced = true
			}
			out = append(out, line)
		}
	}
	if !replaced {
		out = append(out, assignment)
	}
	return strings.Join(out, "\n") + "\n"
}

func parseDotenvLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	key, value, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false, fmt.Errorf(messages.DotenvExpectedKeyValue)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return key, "", true, nil
	}
	switch value[0] {
	case '"', '\'':
		quote := value[0]
		end := closingQuote(value, quote)
		if end < 0 {
			return "", "", false, fmt.Errorf(messages.DotenvUnterminatedQuote)
		}
		rest := strings.TrimSpace(value[end+1:])
		if rest != "" && !strings.HasPrefix(rest, "#") {
			return "", "", false, fmt.Errorf(messages.DotenvTrailingContent)
		}
		inner := value[1:end]
		if quote == '"' {
			inner = unescapeDotenv(inner)
		}
		return key, inner, true, nil
	}
	if idx := strings.Index(value, " #"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return key, value, true, nil
}

func closingQuote(value string, quote byte) int {
	escaped := false
	for i := 1; i < len(value); i++ {
		switch {
		case escaped:
			escaped = false
		case value[i] == '\\' && quote == '"':
			escaped = true
		case value[i] == quote:
			return i
		}
	}
	return -1
}

var dotenvUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\r`, "\r")

func unescapeDotenv(s string) string {
	return dotenvUnescaper.Replace(s)
}

var dotenvEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func quoteDotenvValue(value string) string {
	if !strings.ContainsAny(value, " \t#\"'\\\n\r") {
		return value
	}
	return `"` + dotenvEscaper.Replace(value) + `"`
}
