package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/platelet/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "render", "edit", "clear", "quit"}

// keywords are the reserved names offered at the top level alongside the
// keys of the data context.
var keywords = []string{"true", "false", "null"}

// isIdentRune reports whether r may appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits
// between two non-identifier characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word that
// starts at wordStart. For input "x + page.nav.ti" with the word "ti", the
// parent path is "page.nav". Returns "" for top-level words and for words
// following anything other than a dot.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && !isIdentRune(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// lookupPath follows the dot-separated path from scope through objects and
// arrays. Array segments must be non-negative indices.
func lookupPath(scope lang.Value, path string) (lang.Value, bool) {
	v := scope

	for seg := range strings.SplitSeq(path, ".") {
		switch v.Kind() {
		case lang.KindObject:
			next, ok := v.Object().Get(seg)
			if !ok {
				return lang.Value{}, false
			}

			v = next

		case lang.KindArray:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v.Array()) {
				return lang.Value{}, false
			}

			v = v.Array()[i]

		default:
			return lang.Value{}, false
		}
	}

	return v, true
}

// childCandidates returns the names that are valid completions under the
// given parent path. At the top level these are the keys of the scope, the
// built-in functions and the keywords.
func childCandidates(scope lang.Value, parent string) []string {
	if parent == "" {
		var names []string

		if scope.Kind() == lang.KindObject {
			names = scope.Object().Keys()
		}

		names = append(names, builtinNames()...)

		return append(names, keywords...)
	}

	v, ok := lookupPath(scope, parent)
	if !ok || v.Kind() != lang.KindObject {
		return nil
	}

	return v.Object().Keys()
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. An empty word yields no matches at the top level
// and every child after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	parent := ""
	if m.mode == modeCtrl {
		candidates = ctrlCommands
		if word == "" || strings.Contains(input[:wordStart], " ") {
			return nil, nil, wordStart, wordEnd
		}
	} else {
		parent = parentPath(input, wordStart)
		candidates = childCandidates(m.scope, parent)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if parent == "" {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && i < len(matches)-1 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, highlight := suggestionStyle, matchStyle
	if selected {
		baseStyle, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isBuiltin(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// maxPreview is the width at which value previews are truncated.
const maxPreview = 40

// formatPreview generates a short, single-line preview of a value.
func formatPreview(v lang.Value) string {
	switch v.Kind() {
	case lang.KindArray:
		return "[ " + strconv.Itoa(len(v.Array())) + " items ]"

	case lang.KindObject:
		return "{ " + strconv.Itoa(v.Object().Len()) + " keys }"

	default:
		s := v.String()
		if utf8.RuneCountInString(s) > maxPreview {
			r := []rune(s)

			return string(r[:maxPreview-3]) + "..."
		}

		return s
	}
}
