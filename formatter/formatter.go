// Package formatter provides the text helpers shared by the logger and the
// command runner: long-string breaking, elapsed-time and timestamp rendering,
// call-trace rendering and comment-aware trimming.
package formatter

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Breaker defaults
const (
	DefaultLimit      = 512
	DefaultBreak      = "\n"
	DefaultMaxLines   = 100
	DefaultBreakChars = " &;"
	DefaultMinLimit   = 20
)

// DateTimeLayout renders timestamps as YYMMDDhhmmss
const DateTimeLayout = "060102150405"

// Breaker inserts break markers into strings longer than a line limit.
// Lines are preferably cut right after one of the break characters; a line
// that has none past the minimal limit is cut hard at the limit.
type Breaker struct {
	limit      int
	brk        string
	maxLines   int
	breakChars string
	minLimit   int
}

// NewBreaker creates a breaker with default settings
func NewBreaker() *Breaker {
	return &Breaker{
		limit:      DefaultLimit,
		brk:        DefaultBreak,
		maxLines:   DefaultMaxLines,
		breakChars: DefaultBreakChars,
		minLimit:   DefaultMinLimit,
	}
}

// Limit sets the maximum line length
func (b *Breaker) Limit(limit int) *Breaker {
	if limit > 0 {
		b.limit = limit
	}
	return b
}

// Break sets the marker inserted at each cut
func (b *Breaker) Break(brk string) *Breaker {
	if brk != "" {
		b.brk = brk
	}
	return b
}

// MaxLines sets the maximum number of lines returned
func (b *Breaker) MaxLines(n int) *Breaker {
	if n > 0 {
		b.maxLines = n
	}
	return b
}

// BreakChars sets the characters a line is preferably cut after
func (b *Breaker) BreakChars(chars string) *Breaker {
	if chars != "" {
		b.breakChars = chars
	}
	return b
}

// MinLimit sets the shortest line produced by a soft cut
func (b *Breaker) MinLimit(n int) *Breaker {
	if n > 0 {
		b.minLimit = n
	}
	return b
}

// Apply breaks str. Strings within the limit are returned unchanged.
func (b *Breaker) Apply(str string) string {
	length := len(str)
	if length <= b.limit {
		return str
	}

	var sb strings.Builder
	offset := 0
	addBreak := false
	lines := b.maxLines

	for offset < length {
		var segment string
		pos := strings.Index(str[offset:], b.brk)
		n := length - offset
		if pos >= 0 {
			n = pos
		}

		switch {
		case n == 0:
			// Break marker at the cursor; skip it unless we just inserted one
			offset += len(b.brk)
			if !addBreak {
				segment = b.brk
			}
			addBreak = false

		case n <= b.limit:
			end := offset + n + len(b.brk)
			if end > length {
				end = length
			}
			segment = str[offset:end]
			offset = end
			addBreak = false

		default:
			segment = str[offset : offset+b.limit]
			cut := b.limit - 1
			for ; cut > b.minLimit; cut-- {
				if strings.IndexByte(b.breakChars, segment[cut]) >= 0 {
					break
				}
			}
			if cut > b.minLimit {
				cut++
				segment = segment[:cut]
				offset += cut
			} else {
				offset += b.limit
			}
			addBreak = true
			segment += b.brk
		}

		sb.WriteString(segment)
		lines--
		if lines < 1 {
			break
		}
	}

	return sb.String()
}

// BreakLongString breaks str with the default settings
func BreakLongString(str string) string {
	return NewBreaker().Apply(str)
}

// Abbreviate returns the first line of str cut at limit and marked with
// "...", the form used when a command line is quoted in a banner.
func Abbreviate(str string, limit int) string {
	return NewBreaker().Limit(limit).Break("...").MaxLines(1).Apply(str)
}

// Duration renders d as days/hours/minutes/seconds, e.g. "1D2H3M4S".
// Zero parts are omitted; a zero duration renders as "" or, with showZero,
// as "0S".
func Duration(d time.Duration, showZero bool) string {
	seconds := int64(d / time.Second)
	if seconds <= 0 {
		if showZero {
			return "0S"
		}
		return ""
	}

	var sb strings.Builder
	s := seconds % 60
	minutes := seconds / 60
	m := minutes % 60
	if minutes >= 60 {
		hours := minutes / 60
		h := hours % 24
		if hours >= 24 {
			sb.WriteString(strconv.FormatInt(hours/24, 10) + "D")
		}
		if h > 0 {
			sb.WriteString(strconv.FormatInt(h, 10) + "H")
		}
	}
	if m > 0 {
		sb.WriteString(strconv.FormatInt(m, 10) + "M")
	}
	if s > 0 {
		sb.WriteString(strconv.FormatInt(s, 10) + "S")
	}
	return sb.String()
}

// ExecuteTime appends " within <duration>" to msg for runs of a minute or more
func ExecuteTime(msg string, d time.Duration) string {
	if d >= time.Minute {
		msg += " within " + Duration(d, false)
	}
	return msg
}

// DateTime renders t as YYMMDDhhmmss in local time
func DateTime(t time.Time) string {
	return t.Local().Format(DateTimeLayout)
}

// CallTrace renders call locations as "Called:a.go->b.go(12)\n".
// Numeric entries are line numbers of the preceding file; repeated file
// names are collapsed. Empty entries are ignored.
func CallTrace(locs ...string) string {
	var sb strings.Builder
	var file string
	sep := "Called:"

	for _, loc := range locs {
		if loc == "" {
			continue
		}
		if isDigits(loc) {
			sb.WriteString("(" + loc + ")")
		} else if file == "" || loc != file {
			sb.WriteString(sep + filepath.Base(loc))
			file = loc
			sep = "->"
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Comment handling modes for Trim
const (
	KeepComments   = 0
	StripComments  = 1 // "#" after any whitespace starts a comment
	StripSpaced    = 2 // "#" after two or more whitespaces starts a comment
	commentPattern = `\s+#(.+)$`
	spacedPattern  = `\s\s+#(.+)$`
)

var (
	commentRe = regexp.MustCompile(commentPattern)
	spacedRe  = regexp.MustCompile(spacedPattern)
)

// Trim removes surrounding whitespace and, depending on mode, comments.
// A line starting with "#" is a comment line and trims to "".
func Trim(str string, mode int) string {
	str = strings.TrimLeft(str, " \t\r\n\f\v")
	if mode > KeepComments {
		switch {
		case strings.HasPrefix(str, "#"):
			str = ""
		case mode > StripComments:
			str = spacedRe.ReplaceAllString(str, "")
		default:
			str = commentRe.ReplaceAllString(str, "")
		}
	}
	return strings.TrimRight(str, " \t\r\n\f\v")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
