// FILE: mylog/mailer.go
package mylog

import (
	"context"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Mailer delivers a complete message with From/To/Cc/Subject headers
type Mailer interface {
	Send(ctx context.Context, message string) error
}

// MailerFunc adapts a function to Mailer
type MailerFunc func(ctx context.Context, message string) error

// Send calls f
func (f MailerFunc) Send(ctx context.Context, message string) error {
	return f(ctx, message)
}

// CommandMailer pipes messages into a mail transfer command such as
// "/usr/lib/sendmail -t"
type CommandMailer struct {
	Command string
}

// NewCommandMailer creates a mailer running command
func NewCommandMailer(command string) *CommandMailer {
	return &CommandMailer{Command: command}
}

// Send runs the command with message on its stdin
func (m *CommandMailer) Send(ctx context.Context, message string) error {
	argv, err := shell.Fields(m.Command, nil)
	if err != nil {
		return fmtErrorf("invalid mail command '%s': %w", m.Command, err)
	}
	if len(argv) == 0 {
		return fmtErrorf("empty mail command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(message)
	if out, err := cmd.CombinedOutput(); err != nil {
		if detail := strings.TrimSpace(string(out)); detail != "" {
			return fmtErrorf("%s: %w: %s", argv[0], err, detail)
		}
		return fmtErrorf("%s: %w", argv[0], err)
	}
	return nil
}
