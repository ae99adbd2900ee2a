package render

import (
	"strconv"
	"strings"
)

// wrapText breaks text into lines no wider than maxWidth. Newlines force a
// break and words wider than a line are split between characters.
func wrapText(text string, style TextStyle, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if textWidth(candidate, style) <= maxWidth {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for textWidth(word, style) > maxWidth {
				head, rest := splitWord(word, style, maxWidth)
				lines = append(lines, head)
				word = rest
			}
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// splitWord returns the longest prefix of word that fits, keeping at least
// one rune so progress is guaranteed.
func splitWord(word string, style TextStyle, maxWidth float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && textWidth(string(runes[:n+1]), style) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// rgb converts an RRGGBB hex color to PDF color components.
func rgb(hex string) string {
	if len(hex) != 6 {
		return "0 0 0"
	}
	parts := make([]string, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return "0 0 0"
		}
		parts[i] = num(float64(v) / 255)
	}
	return strings.Join(parts, " ")
}
