package format

import (
	"regexp"
	"strconv"
	"strings"
)

// ParamType classifies a tool parameter value for colorization. Sniffing
// only picks a color; the value itself is always rendered verbatim.
type ParamType int

const (
	ParamPlain ParamType = iota
	ParamPath
	ParamShell
	ParamPattern
	ParamNumber
)

// String returns the type name.
func (t ParamType) String() string {
	switch t {
	case ParamPath:
		return "path"
	case ParamShell:
		return "shell"
	case ParamPattern:
		return "pattern"
	case ParamNumber:
		return "number"
	default:
		return "plain"
	}
}

// paramRule pairs a type with its predicate. Rules run in order; the first
// hit wins. Numbers go first because they are unambiguous, shell commands
// before paths so "rm -rf build/" is not mistaken for a path argument.
type paramRule struct {
	typ   ParamType
	match func(string) bool
}

var paramRules = []paramRule{
	{ParamNumber, looksLikeNumber},
	{ParamShell, looksLikeShell},
	{ParamPath, looksLikePath},
	{ParamPattern, looksLikePattern},
}

// SniffParamType picks a display type for a parameter value. Values that
// match no rule render plain; sniffing never fails.
func SniffParamType(value string) ParamType {
	for _, rule := range paramRules {
		if rule.match(value) {
			return rule.typ
		}
	}
	return ParamPlain
}

func looksLikeNumber(v string) bool {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// shellCommands are first tokens that mark a value as a command line.
var shellCommands = map[string]struct{}{
	"git": {}, "go": {}, "npm": {}, "pnpm": {}, "yarn": {}, "node": {},
	"python": {}, "python3": {}, "pip": {}, "cargo": {}, "make": {},
	"docker": {}, "kubectl": {}, "curl": {}, "wget": {}, "ssh": {},
	"ls": {}, "cat": {}, "cd": {}, "cp": {}, "mv": {}, "rm": {},
	"mkdir": {}, "touch": {}, "chmod": {}, "chown": {}, "grep": {},
	"find": {}, "sed": {}, "awk": {}, "echo": {}, "tar": {},
	"head": {}, "tail": {}, "sort": {}, "ps": {}, "kill": {},
}

func looksLikeShell(v string) bool {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "sudo ") || strings.HasPrefix(trimmed, "$ ") {
		return true
	}
	for _, sep := range []string{" | ", " && ", " || ", "; "} {
		if strings.Contains(trimmed, sep) {
			return true
		}
	}
	first, _, _ := strings.Cut(trimmed, " ")
	_, ok := shellCommands[first]
	return ok
}

var (
	rePathWindows = regexp.MustCompile(`^[A-Za-z]:\\`)
	rePathUnix    = regexp.MustCompile(`^(\.{1,2}/|~/|/)?[\w@%+=:,.-]+(/[\w@%+=:,.-]+)+/?$`)
	reFileName    = regexp.MustCompile(`^[\w-]+\.[A-Za-z0-9]{1,8}$`)
)

func looksLikePath(v string) bool {
	if v == "" || strings.ContainsAny(v, " \t\n") {
		return false
	}
	return rePathWindows.MatchString(v) || rePathUnix.MatchString(v) || reFileName.MatchString(v)
}

// patternMeta are the glob and regex metacharacters that mark a value as a
// search pattern rather than literal text.
const patternMeta = `\*?[](){}^$|`

func looksLikePattern(v string) bool {
	return v != "" && strings.ContainsAny(v, patternMeta)
}
