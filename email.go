// FILE: mylog/email.go
package mylog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rdatools/mylog/formatter"
)

// SetEmail adds msg to the pending email.
//
// With EmailTop the progress message, an error roll-up ("!" when there were
// no errors, "with N Error(s):" and the numbered errors otherwise) and the
// summary are folded into a block that is prepended to the detail buffer;
// the error and summary accumulators are reset.
//
// Otherwise ErrLog numbers msg into the error buffer, EmailSummary appends
// it to the summary and EmailLog appends it to the detail buffer.
//
// An empty msg with a zero act clears the detail buffer; an empty msg is
// otherwise ignored.
func (l *Logger) SetEmail(msg string, act Action) {
	if msg == "" {
		if act == 0 {
			l.ClearEmail()
		}
		return
	}
	if act == 0 {
		return
	}

	st := l.state
	sep := l.getConfig().SepLine

	if act.Has(EmailTop) {
		if st.Progress != "" {
			msg = st.Progress + "\n" + msg
			st.Progress = ""
		}
		switch st.ErrorCount {
		case 0:
			if !strings.HasSuffix(msg, "\n") {
				msg += "!\n"
			}
		case 1:
			msg += " with 1 Error:\n" + st.ErrorBuffer
		default:
			msg += " with " + strconv.Itoa(st.ErrorCount) + " Errors:\n" + st.ErrorBuffer
		}
		st.ErrorCount = 0
		st.ErrorBuffer = ""

		if st.Summary != "" {
			msg += sep
			if st.Detail != "" {
				msg += "Summary:\n"
			}
			msg += st.Summary
		}
		if st.Detail != "" {
			msg += sep
			if st.Summary != "" {
				msg += "Detail Information:\n"
			}
		}
		st.Detail = msg + st.Detail
		st.Summary = ""
		return
	}

	if act.Has(ErrLog) {
		st.ErrorCount++
		st.ErrorBuffer += strconv.Itoa(st.ErrorCount) + ". " + msg
	} else if act.Has(EmailSummary) {
		st.Summary = decorate(st.Summary, act, sep) + msg
	}
	if act.Has(EmailLog) {
		st.Detail = decorate(st.Detail, act, sep) + msg
	}
}

// decorate appends BreakLine/SepLine decoration to a non-empty buffer
func decorate(buf string, act Action, sep string) string {
	if buf == "" {
		return buf
	}
	if act.Has(BreakLine) {
		buf += "\n"
	}
	if act.Has(SepLine) {
		buf += sep
	}
	return buf
}

// ClearEmail drops the pending detail buffer
func (l *Logger) ClearEmail() {
	l.state.Detail = ""
}

// Email returns the pending detail buffer
func (l *Logger) Email() string {
	return l.state.Detail
}

// SetProgress replaces the in-progress message folded into the next
// EmailTop composition
func (l *Logger) SetProgress(msg string) {
	l.state.Progress = msg
}

// completeAddress appends the email domain to a bare user name
func (l *Logger) completeAddress(addr string) string {
	if strings.Contains(addr, "@") {
		return addr
	}
	return addr + "@" + l.getConfig().EmailDomain
}

// SendEmail sends msg, or the pending detail buffer when msg is empty, and
// returns the line describing the send ("" when nothing was sent). Empty
// sender and receiver default to the current user and email_addr. With a
// non-zero act the send is also logged, never with ExitLog.
func (l *Logger) SendEmail(subject, receiver, msg, sender string, act Action) string {
	cfg := l.getConfig()
	st := l.state

	if msg == "" && st.Detail != "" {
		msg = st.Detail
		st.Detail = ""
	}
	if msg == "" {
		return ""
	}

	copySender := false
	if sender != "" {
		sender = l.completeAddress(sender)
	} else {
		sender = l.completeAddress(cfg.User)
		copySender = true
	}
	if receiver != "" {
		receiver = l.completeAddress(receiver)
	} else if cfg.EmailAddr != "" {
		receiver = cfg.EmailAddr
	} else {
		receiver = l.completeAddress(cfg.User)
	}
	if copySender && !strings.Contains(receiver, sender) {
		l.AddCarbonCopy(sender)
	}

	var email, logmsg strings.Builder
	email.WriteString("From: " + sender + "\nTo: " + receiver + "\n")
	logmsg.WriteString("Email " + receiver)
	if st.Cc != "" {
		email.WriteString("Cc: " + st.Cc + "\n")
		logmsg.WriteString(" Cc'd " + st.Cc)
	}
	title := subject
	if title == "" {
		title = "Message from " + l.hostCommand()
	}
	email.WriteString("Subject: " + title + "!\n\n" + msg + "\n")
	if st.CommandID != "" {
		logmsg.WriteString(" in " + st.CommandID)
	}
	if subject != "" {
		logmsg.WriteString(", Subject: " + subject + "!")
	}
	logmsg.WriteString("\n")

	if err := l.mailer.Send(context.Background(), email.String()); err != nil {
		l.Log(fmt.Sprintf("Error Send Email '%s': %v", cfg.EmailSend, err), ErrLog)
		return ""
	}

	l.logEmail(email.String())
	if act != 0 {
		l.Log(logmsg.String(), act&^ExitLog)
	}
	return logmsg.String()
}

// emailEntries are the headers a customized email is checked for
var emailEntries = []struct {
	name     string
	required bool
	re       *regexp.Regexp
}{
	{"From", true, regexp.MustCompile(`From:[ \t]*(.*)\n`)},
	{"To", true, regexp.MustCompile(`To:[ \t]*(.*)\n`)},
	{"Cc", false, regexp.MustCompile(`Cc:[ \t]*(.*)\n`)},
	{"Subject", true, regexp.MustCompile(`Subject:[ \t]*(.*)\n`)},
}

// SendCustomizedEmail sends a complete message whose From, To and Subject
// headers are written by the caller. A missing required header is logged
// with act|ErrLog and returned as ErrMissingEntry; nothing is sent.
func (l *Logger) SendCustomizedEmail(logmsg, text string, act Action) error {
	cfg := l.getConfig()
	if logmsg != "" {
		logmsg += ": "
	}

	values := make(map[string]string, len(emailEntries))
	for _, entry := range emailEntries {
		if m := entry.re.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
			values[entry.name] = strings.TrimSpace(m[1])
		} else if entry.required {
			if act != 0 {
				l.Log(logmsg+"Missing Entry '"+entry.name+"' for sending email", act|ErrLog)
			}
			return fmt.Errorf("%w: %s", ErrMissingEntry, entry.name)
		}
	}

	if err := l.mailer.Send(context.Background(), text); err != nil {
		if act != 0 {
			l.Log(fmt.Sprintf("Error Send Email '%s': %v", cfg.EmailSend, err), act|ErrLog)
		}
		return fmtErrorf("failed to send email: %w", err)
	}

	l.logEmail(text)
	if act != 0 {
		line := logmsg + "Email " + values["To"] + " "
		if values["Cc"] != "" {
			line += "Cc'd " + values["Cc"] + " "
		}
		line += "Subject: " + values["Subject"]
		l.Log(line, act&^ExitLog)
	}
	return nil
}

// logEmail appends a sent message to the email record, headed by the
// process identifier, the current command and the time
func (l *Logger) logEmail(email string) {
	head := l.processID() + " " + formatter.Abbreviate(l.state.Command, bannerCommandLimit)
	head += "  at " + formatter.DateTime(l.now()) + "\n"
	_ = l.writeSink(l.getConfig().EmailFilePath(), head+email)
}

// AddCarbonCopy adds comma or space separated addresses to the carbon
// copies of outgoing email. Bare names get the email domain; addresses
// already present, or contained in exclude, are skipped.
func (l *Logger) AddCarbonCopy(cc string, exclude ...string) {
	st := l.state
	for _, addr := range strings.FieldsFunc(cc, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if strings.Contains(addr, "/") || addr == "N" {
			continue
		}
		addr = l.completeAddress(addr)
		if excluded(addr, exclude) {
			continue
		}
		if st.Cc != "" {
			if strings.Contains(st.Cc, addr) {
				continue
			}
			st.Cc += ", "
		}
		st.Cc += addr
	}
}

// ClearCarbonCopy drops all carbon copies
func (l *Logger) ClearCarbonCopy() {
	l.state.Cc = ""
}

func excluded(addr string, exclude []string) bool {
	for _, ex := range exclude {
		if strings.Contains(ex, addr) {
			return true
		}
	}
	return false
}
