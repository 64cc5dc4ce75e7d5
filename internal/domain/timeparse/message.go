package timeparse

import (
	"regexp"
	"strings"
)

var (
	bracketedMessage = regexp.MustCompile(`\[([^\[\]\n]+?)\]`)
	quotedMessage    = regexp.MustCompile(`"([^"\n]+?)"`)
)

// messageTrimChars are stripped from both ends of a free-text label.
const messageTrimChars = " \t\r\n.,;:!?-–—\"'[]()"

// FindMessage extracts the label a user wants attached to a reminder.
// A [bracketed] phrase anywhere in the body wins, then a "quoted" phrase on
// the command line, then whatever follows the time expression on that line.
// ok is false when nothing usable is left.
func FindMessage(body string) (string, bool) {
	if m := bracketedMessage.FindStringSubmatch(body); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			return text, true
		}
	}

	timeString, found := FindTimeString(body)
	if !found {
		return "", false
	}
	if m := quotedMessage.FindStringSubmatch(timeString); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			return text, true
		}
	}

	rest := timeString[ExpressionLength(timeString):]
	rest = strings.Trim(rest, messageTrimChars)
	if rest == "" {
		return "", false
	}
	return rest, true
}
