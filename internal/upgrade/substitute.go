package upgrade

import "strings"

// Placeholders used by the rn-diff-purge template app.
const (
	PlaceholderAppName     = "RnDiffApp"
	PlaceholderPackage     = "com.rndiffapp"
	PlaceholderPackagePath = "com/rndiffapp"
	PlaceholderLower       = "rndiffapp"
)

// maxSubstitutionPasses bounds the fixpoint loop in Apply.
const maxSubstitutionPasses = 8

// Substituter rewrites template placeholders to the project's identifiers.
type Substituter struct {
	AppName    string
	AppPackage string
}

func (s Substituter) replacer() *strings.Replacer {
	// Longer package forms go first so the bare lowercase token does not
	// consume the tail of com.rndiffapp.
	return strings.NewReplacer(
		PlaceholderAppName, s.AppName,
		PlaceholderPackage, s.AppPackage,
		PlaceholderPackagePath, strings.ReplaceAll(s.AppPackage, ".", "/"),
		PlaceholderLower, strings.ToLower(s.AppPackage),
	)
}

// Apply replaces every placeholder in text. The result contains no
// placeholder unless AppName or AppPackage contain one themselves, so
// applying it again is a no-op.
func (s Substituter) Apply(text string) string {
	if !containsPlaceholder(text) {
		return text
	}
	r := s.replacer()
	for i := 0; i < maxSubstitutionPasses; i++ {
		next := r.Replace(text)
		if next == text || !containsPlaceholder(next) {
			return next
		}
		text = next
	}
	return text
}

func containsPlaceholder(text string) bool {
	return strings.Contains(text, PlaceholderAppName) || strings.Contains(text, PlaceholderLower)
}
