// Package newick reads and writes rooted trees in the Newick format,
// following the conventions at
// http://evolution.genetics.washington.edu/phylip/newick_doc.html.
//
// Labels may be unquoted or single-quoted ('' escapes a quote inside a
// quoted label). Bracketed comments are skipped. A missing branch length
// becomes betadiv.NoDistance. Underscores in unquoted labels are kept as-is,
// since sample tables name sequences the same way.
package newick

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TrevorS/betadiv"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("newick: syntax error")

// Parse reads the first tree from r.
func Parse(r io.Reader) (*betadiv.Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("newick: read: %w", err)
	}
	return ParseString(string(b))
}

// ReadFile parses the first tree in the named file.
func ReadFile(path string) (*betadiv.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("newick: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses one tree terminated by ';'.
func ParseString(s string) (*betadiv.Tree, error) {
	p := &parser{s: s}
	p.skip()
	if p.eof() {
		return nil, fmt.Errorf("%w: no tree", ErrSyntax)
	}

	t := betadiv.NewTree("")
	if err := p.node(t, t.Root()); err != nil {
		return nil, err
	}
	t.SetDistanceToParent(t.Root(), betadiv.NoDistance)

	p.skip()
	if p.peek() != ';' {
		return nil, p.errorf("expected ';'")
	}
	return t, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.s) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

// skip advances past whitespace and [comments].
func (p *parser) skip() {
	for !p.eof() {
		switch c := p.s[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '[':
			end := strings.IndexByte(p.s[p.pos:], ']')
			if end < 0 {
				p.pos = len(p.s)
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

// node parses one subtree into id: an optional parenthesized child list,
// an optional label and an optional ":length".
func (p *parser) node(t *betadiv.Tree, id betadiv.NodeID) error {
	p.skip()
	if p.peek() == '(' {
		p.pos++
		for {
			child := t.AddChild(id, "", betadiv.NoDistance)
			if err := p.node(t, child); err != nil {
				return err
			}
			p.skip()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ')':
				p.pos++
			default:
				return p.errorf("expected ',' or ')'")
			}
			break
		}
	}

	p.skip()
	name, err := p.label()
	if err != nil {
		return err
	}
	t.SetNodeName(id, name)

	p.skip()
	if p.peek() == ':' {
		p.pos++
		p.skip()
		d, err := p.number()
		if err != nil {
			return err
		}
		t.SetDistanceToParent(id, d)
	}
	return nil
}

func (p *parser) label() (string, error) {
	if p.peek() == '\'' {
		p.pos++
		var sb strings.Builder
		for {
			if p.eof() {
				return "", p.errorf("unterminated quoted label")
			}
			c := p.s[p.pos]
			p.pos++
			if c == '\'' {
				if p.peek() == '\'' {
					sb.WriteByte('\'')
					p.pos++
					continue
				}
				return sb.String(), nil
			}
			sb.WriteByte(c)
		}
	}

	start := p.pos
	for !p.eof() && !isDelimiter(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for !p.eof() && !isDelimiter(p.s[p.pos]) {
		p.pos++
	}
	d, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("bad branch length %q", p.s[start:p.pos])
	}
	return d, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', ',', ':', ';', '[', ']', '\'', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Format renders t in Newick, terminated by ';'.
func Format(t *betadiv.Tree) string {
	var sb strings.Builder
	if t.Root() != betadiv.NoNode {
		writeNode(&sb, t, t.Root())
	}
	sb.WriteByte(';')
	return sb.String()
}

// Write writes t to w followed by a newline.
func Write(w io.Writer, t *betadiv.Tree) error {
	_, err := io.WriteString(w, Format(t)+"\n")
	return err
}

func writeNode(sb *strings.Builder, t *betadiv.Tree, id betadiv.NodeID) {
	if kids := t.Children(id); len(kids) > 0 {
		sb.WriteByte('(')
		for i, c := range kids {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNode(sb, t, c)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(quote(t.NodeName(id)))
	if d := t.DistanceToParent(id); d != betadiv.NoDistance {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
	}
}

func quote(name string) string {
	for i := 0; i < len(name); i++ {
		if isDelimiter(name[i]) {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}
