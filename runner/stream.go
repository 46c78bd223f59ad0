// FILE: mylog/runner/stream.go
package runner

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"
)

// stdoutTag marks stdout lines on the merged pipe
const stdoutTag = "\x1eSTDOUT "

// outputLine is one line of child output tagged with its stream
type outputLine struct {
	text   string
	stdout bool
}

// mergedOutput joins a child's stdout and stderr on one pipe. Stderr is
// the pipe itself; stdout goes through its own pipe and is copied onto the
// merged one line by line behind stdoutTag. A stdout line therefore lands
// after every stderr write the child made before it.
type mergedOutput struct {
	stdoutR, stdoutW *os.File
	mergedR, mergedW *os.File
}

func newMergedOutput() (*mergedOutput, error) {
	m := &mergedOutput{}
	var err error
	if m.stdoutR, m.stdoutW, err = os.Pipe(); err != nil {
		return nil, err
	}
	if m.mergedR, m.mergedW, err = os.Pipe(); err != nil {
		m.stdoutR.Close()
		m.stdoutW.Close()
		return nil, err
	}
	return m, nil
}

// attach sets the pipes as the child's stdout and stderr
func (m *mergedOutput) attach(c *exec.Cmd) {
	c.Stdout = m.stdoutW
	c.Stderr = m.mergedW
}

// started drops the parent's copy of the child's stdout and starts tagging
func (m *mergedOutput) started() {
	m.stdoutW.Close()
	go m.tagStdout()
}

// tagStdout copies stdout lines onto the merged pipe, one write per line.
// The merged pipe's last parent-side writer is closed on return.
func (m *mergedOutput) tagStdout() {
	defer m.mergedW.Close()
	defer m.stdoutR.Close()

	r := bufio.NewReader(m.stdoutR)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if _, werr := io.WriteString(m.mergedW, stdoutTag+line); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// abandon unblocks readers still waiting on pipes held open by
// descendants of a killed child
func (m *mergedOutput) abandon() {
	m.stdoutR.Close()
	m.mergedR.Close()
}

// close releases every pipe end; used when the child never started
func (m *mergedOutput) close() {
	m.stdoutR.Close()
	m.stdoutW.Close()
	m.mergedR.Close()
	m.mergedW.Close()
}

// read delivers the merged lines to handle until the pipe is drained
func (m *mergedOutput) read(handle func(outputLine)) {
	demux(m.mergedR, handle)
	m.mergedR.Close()
}

// demux splits merged output into tagged lines. Unterminated stderr text
// cut by a stdout line is held until its newline arrives.
func demux(r io.Reader, handle func(outputLine)) {
	br := bufio.NewReader(r)
	var pending string

	for {
		s, err := br.ReadString('\n')
		if s != "" {
			text := strings.TrimSuffix(s, "\n")
			switch i := strings.Index(text, stdoutTag); {
			case i >= 0:
				pending += text[:i]
				handle(outputLine{text: text[i+len(stdoutTag):], stdout: true})
			case len(text) < len(s):
				handle(outputLine{text: pending + text})
				pending = ""
			default:
				pending += text
			}
		}
		if err != nil {
			break
		}
	}

	if pending != "" {
		handle(outputLine{text: pending})
	}
}
