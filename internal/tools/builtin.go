package tools

import (
	"strings"
	"unicode"
)

// RegisterBuiltinChecks registers the checks that need no credentials.
func RegisterBuiltinChecks(registry *Registry) {
	registry.Register(&ShellCheck{})
	registry.Register(&HTTPCheck{})
}

var dangerousCommands = map[string]bool{
	"rm": true, "rmdir": true, "del": true, "unlink": true,
	"format": true, "fdisk": true, "mkfs": true,
	"dd": true, "shred": true, "wipe": true,
	"chmod": true, "chown": true, "chgrp": true,
	"sudo": true, "su": true, "doas": true,
	"passwd": true, "usermod": true, "userdel": true,
	"systemctl": true, "service": true, "init": true,
	"reboot": true, "shutdown": true, "halt": true,
	"kill": true, "killall": true, "pkill": true,
	"mv": true, "truncate": true,
	"iptables": true, "crontab": true,
	"dropdb": true, "kubectl": true, "terraform": true,
}

var dangerousPatterns = []string{
	">", "--force", " -f", "--recursive", " -r",
	"--no-preserve-root", "--hard", "drop ", "delete ", "truncate ",
	"push --force", "destroy",
}

// IsDangerous reports whether command is likely to modify or destroy state.
// Every command segment (split on pipes, ; and &&) is judged by its program
// name, then the whole line is scanned for risky flags and redirections.
func IsDangerous(command string) bool {
	lower := strings.ToLower(strings.TrimSpace(command))
	if lower == "" {
		return false
	}

	segments := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '|' || r == ';' || r == '&'
	})
	for _, seg := range segments {
		fields := strings.FieldsFunc(seg, unicode.IsSpace)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if dangerousCommands[name] {
			return true
		}
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
