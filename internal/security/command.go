package security

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Command validates commands to prevent injection attacks.
// Used to prevent command injection attacks (CWE-78).
type Command struct {
	whitelist          []string            // Only allow commands in this list
	blockedSubcommands map[string][]string // cmd → blocked first-arg subcommands
}

// MaxCommandArgLength is the maximum length of a single argument in bytes.
// Prevents abuse via extremely long argument strings.
const MaxCommandArgLength = 10000

// NewCommand creates a new Command validator with whitelist mode (secure by default).
// Only the external programs the tools actually drive are whitelisted:
//
//   - mvn: build and test execution (run_maven_tests)
//   - git: repository inspection and the commit/push workflow
//   - gh: pull request creation (git_pull_request)
//
// extra lists additional executables to whitelist, for deployments where
// the Maven executable is configured to something other than "mvn"
// (a wrapper script, an absolute path, mvn.cmd on Windows).
//
// History-rewriting git subcommands and gh subcommands outside the PR
// workflow are blocked (see blockedSubcommands).
func NewCommand(extra ...string) *Command {
	whitelist := []string{
		"mvn",
		"git",
		"gh",
	}
	for _, cmd := range extra {
		cmd = strings.TrimSpace(cmd)
		if cmd != "" && !slices.Contains(whitelist, cmd) {
			whitelist = append(whitelist, cmd)
		}
	}

	return &Command{
		whitelist: whitelist,
		// Blocked subcommands: first argument must NOT match these.
		// Prevents whitelisted commands from rewriting history or
		// executing arbitrary code.
		blockedSubcommands: map[string][]string{
			"git": {
				"reset", "clean", "rebase", "filter-branch",
				"config", "difftool", "mergetool", "gc", "prune",
			},
			"gh": {
				"auth", "repo", "secret", "ssh-key", "codespace", "api",
			},
		},
	}
}

// Validate validates whether a command is safe to execute.
//
// SECURITY NOTE: This validator is designed for use with exec.Command(cmd, args...),
// which does NOT pass arguments through a shell. Therefore:
// - Special characters ($, |, >, <, etc.) in args[] are SAFE (treated as literals)
// - We only validate the command name (cmd) strictly
// - Args are checked for obviously malicious patterns but not for shell metacharacters
func (v *Command) Validate(cmd string, args []string) error {
	if strings.TrimSpace(cmd) == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if err := validateCommandName(cmd); err != nil {
		return fmt.Errorf("validating command name: %w", err)
	}

	if !v.isCommandInWhitelist(cmd) {
		slog.Warn("command not in whitelist",
			"command", cmd,
			"whitelist", v.whitelist,
			"security_event", "command_whitelist_violation")
		return fmt.Errorf("command '%s' is not in whitelist", cmd)
	}

	if err := v.validateSubcommands(cmd, args); err != nil {
		return err
	}

	// Check args for obviously malicious patterns.
	// NOTE: We do NOT check for shell metacharacters (|, $, >, etc.) because
	// exec.Command treats them as literal strings, not shell operators.
	for i, arg := range args {
		if err := validateArgument(arg); err != nil {
			slog.Warn("dangerous argument detected",
				"command", cmd,
				"arg_index", i,
				"arg_value", arg,
				"error", err,
				"security_event", "dangerous_argument")
			return fmt.Errorf("argument %d is unsafe: %w", i, err)
		}
	}

	return nil
}

// shellMetachars lists characters that indicate shell injection in a command name.
const shellMetachars = ";|&`\n><$()"

// validateCommandName validates the command name (executable) only.
// Checks for shell injection attempts in the command name itself.
func validateCommandName(cmd string) error {
	cmd = strings.TrimSpace(strings.ToLower(cmd))

	if i := strings.IndexAny(cmd, shellMetachars); i >= 0 {
		char := string(cmd[i])
		slog.Warn("command name contains shell metacharacter",
			"command", cmd,
			"character", char,
			"security_event", "shell_injection_in_command_name")
		return fmt.Errorf("command name contains shell metacharacter: %q", char)
	}

	return nil
}

// isCommandInWhitelist checks if command name is in the whitelist.
func (v *Command) isCommandInWhitelist(cmd string) bool {
	cmdTrimmed := strings.TrimSpace(cmd)
	for _, allowed := range v.whitelist {
		if strings.EqualFold(cmdTrimmed, allowed) {
			return true
		}
	}
	return false
}

// validateSubcommands checks if a whitelisted command is being used with a
// blocked subcommand. For example, "git" is whitelisted but "git push" is blocked.
func (v *Command) validateSubcommands(cmd string, args []string) error {
	cmdLower := strings.ToLower(strings.TrimSpace(cmd))

	if blocked, ok := v.blockedSubcommands[cmdLower]; ok && len(args) > 0 {
		firstArg := strings.ToLower(strings.TrimSpace(args[0]))
		if slices.Contains(blocked, firstArg) {
			slog.Warn("blocked subcommand",
				"command", cmd,
				"subcommand", args[0],
				"security_event", "blocked_subcommand")
			return fmt.Errorf("subcommand '%s %s' is not allowed", cmd, args[0])
		}
	}

	return nil
}

// dangerousArgPatterns lists embedded command patterns that are dangerous
// even when passed as arguments via exec.Command.
var dangerousArgPatterns = []string{
	"rm -rf /",
	"rm -rf /*",
	"rm -rf ~",
	"mkfs",
	"dd if=/dev/zero",
	"dd if=/dev/urandom",
	"shutdown",
	"reboot",
	"sudo su",
}

// validateArgument checks if an argument contains obviously malicious patterns.
//
// IMPORTANT: This function does NOT check for shell metacharacters like $, |, >, <
// because when using exec.Command(cmd, args...), these are treated as literal strings
// and are safe. We only check for truly dangerous patterns:
// - Embedded dangerous commands (e.g., "rm -rf /")
// - Null bytes
// - Extremely long arguments (possible buffer overflow)
func validateArgument(arg string) error {
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("argument contains null byte")
	}

	if len(arg) > MaxCommandArgLength {
		return fmt.Errorf("argument too long (%d bytes, max %d)", len(arg), MaxCommandArgLength)
	}

	argLower := strings.ToLower(arg)
	for _, pattern := range dangerousArgPatterns {
		if strings.Contains(argLower, pattern) {
			return fmt.Errorf("argument contains dangerous pattern: %s", pattern)
		}
	}

	return nil
}
