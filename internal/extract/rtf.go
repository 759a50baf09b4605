package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// rtfSkipDestinations are group destinations that carry no document text.
var rtfSkipDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"object":     true,
}

// extractRTF extracts plain text from .rtf bytes by walking the control
// structure: control words are consumed, non-text destination groups
// (font tables, style sheets, embedded pictures) are skipped, and escape
// sequences are decoded. \par, \line, and \tab become whitespace.
func extractRTF(content []byte) (string, error) {
	if !strings.HasPrefix(string(content[:min(len(content), 5)]), `{\rtf`) {
		return "", fmt.Errorf(`extract RTF: missing {\rtf header`)
	}

	var b strings.Builder
	depth := 0
	skipDepth := 0 // depth of the group being skipped; 0 means not skipping
	emit := func(s string) {
		if skipDepth == 0 {
			b.WriteString(s)
		}
	}

	i := 0
	for i < len(content) {
		switch c := content[i]; c {
		case '{':
			depth++
			i++
			// {\* ...} marks an optional destination; ignore it entirely.
			if skipDepth == 0 && i+1 < len(content) && content[i] == '\\' && content[i+1] == '*' {
				skipDepth = depth
				i += 2
			}
		case '}':
			if skipDepth == depth {
				skipDepth = 0
			}
			depth--
			i++
		case '\r', '\n':
			i++
		case '\\':
			i++
			if i >= len(content) {
				break
			}
			switch esc := content[i]; {
			case esc == '\\' || esc == '{' || esc == '}':
				emit(string(esc))
				i++
			case esc == '~':
				emit(" ")
				i++
			case esc == '\'':
				// \'hh hex-escaped byte
				if i+2 < len(content) {
					if v, err := strconv.ParseUint(string(content[i+1:i+3]), 16, 8); err == nil {
						emit(string(rune(v)))
					}
					i += 3
				} else {
					i = len(content)
				}
			case isRTFLetter(esc):
				word, param, next := readRTFControlWord(content, i)
				i = next
				switch word {
				case "par", "line", "sect", "page":
					emit("\n")
				case "tab", "cell":
					emit("\t")
				case "u":
					// \uN unicode escape; the following character is the
					// legacy fallback and must be dropped. Code points above
					// 32767 are encoded as negative 16-bit values.
					if param < 0 {
						param += 65536
					}
					emit(string(rune(param)))
					if i < len(content) && content[i] != '\\' && content[i] != '{' && content[i] != '}' {
						i++
					}
				default:
					if rtfSkipDestinations[word] && skipDepth == 0 {
						skipDepth = depth
					}
				}
			default:
				// Unknown escape; drop it.
				i++
			}
		default:
			emit(string(c))
			i++
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// readRTFControlWord parses a control word starting at content[i] (the first
// letter after the backslash). It returns the word, its numeric parameter if
// present, and the index just past the word and its single optional
// delimiting space.
func readRTFControlWord(content []byte, i int) (word string, param int, next int) {
	start := i
	for i < len(content) && isRTFLetter(content[i]) {
		i++
	}
	word = string(content[start:i])

	numStart := i
	if i < len(content) && content[i] == '-' {
		i++
	}
	for i < len(content) && content[i] >= '0' && content[i] <= '9' {
		i++
	}
	if i > numStart {
		param, _ = strconv.Atoi(string(content[numStart:i]))
	}
	if i < len(content) && content[i] == ' ' {
		i++
	}
	return word, param, i
}

func isRTFLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
