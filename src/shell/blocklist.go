package shell

import "strings"

// blockedPrefixes are destructive command shapes run_command refuses to
// execute: recursive deletes, partition and filesystem tools, privilege
// elevation, power control, raw network fetchers, and user/database
// management. A command is blocked when its first token matches, or when
// it begins with a multi-word prefix followed by a space or end of input.
var blockedPrefixes = []string{
	"rm -rf",
	"rm -r",
	"rm -fr",
	"mkfs",
	"fdisk",
	"parted",
	"dd",
	"sudo",
	"su",
	"doas",
	"shutdown",
	"reboot",
	"halt",
	"poweroff",
	"init",
	"curl",
	"wget",
	"nc",
	"netcat",
	"chown",
	"chmod 777",
	"mount",
	"umount",
	"killall",
	"pkill",
	"passwd",
	"userdel",
	"usermod",
	"groupdel",
	"visudo",
	"mkswap",
	"swapon",
}

// IsBlocked reports whether command matches the destructive blocklist,
// returning the matched prefix for the error message. Matching is
// case-insensitive on the first token / exact prefix followed by a
// space; "rmdir" must not match "rm".
func IsBlocked(command string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(command))
	if trimmed == "" {
		return "", false
	}
	for _, prefix := range blockedPrefixes {
		if trimmed == prefix || strings.HasPrefix(trimmed, prefix+" ") {
			return prefix, true
		}
	}
	return "", false
}
