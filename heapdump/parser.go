// ABOUTME: Streaming decoder for Ruby ObjectSpace JSON-lines heap dumps
// ABOUTME: One record per line; named ROOT records get synthesized ids

package heapdump

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/viv-4/harb/graph"
)

// rootIDBase is the reserved range for named ROOT records, which carry
// no address of their own. No real heap address reaches this range.
const rootIDBase uint64 = 0xffffffff00000000

// maxLineSize bounds a single dump line. Large ARRAY and ROOT records
// routinely exceed bufio's default token size.
const maxLineSize = 64 * 1024 * 1024

// rawRecord mirrors the dump-format field names the decoder consumes.
type rawRecord struct {
	Address    string          `json:"address"`
	Type       string          `json:"type"`
	Root       string          `json:"root"`
	Name       string          `json:"name"`
	Value      json.RawMessage `json:"value"`
	Class      string          `json:"class"`
	Memsize    uint64          `json:"memsize"`
	References []string        `json:"references"`
}

// Parser decodes a dump stream one record at a time. Each Parser is
// fully self-contained, so the same process can drive one for the
// primary snapshot and another per diff target.
type Parser struct {
	sc        *bufio.Scanner
	rootSeq   uint64
	line      int
	malformed int
}

// NewParser creates a streaming parser over r.
func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), maxLineSize)
	return &Parser{sc: sc}
}

// Next returns the next decoded record, io.EOF at end of stream, or a
// read error. Lines that fail to decode are counted and skipped; a
// damaged record never aborts the pass.
func (p *Parser) Next() (*Record, error) {
	for p.sc.Scan() {
		p.line++
		line := bytes.TrimSpace(p.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := p.decode(line)
		if err != nil {
			p.malformed++
			continue
		}
		return rec, nil
	}
	if err := p.sc.Err(); err != nil {
		return nil, fmt.Errorf("reading dump at line %d: %w", p.line, err)
	}
	return nil, io.EOF
}

// Malformed returns how many lines failed to decode so far.
func (p *Parser) Malformed() int {
	return p.malformed
}

func (p *Parser) decode(line []byte) (*Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, err
	}

	rec := &Record{
		Type:  graph.ParseTypeTag(raw.Type),
		Size:  raw.Memsize,
		Class: raw.Class,
		Raw:   append([]byte(nil), line...),
	}
	rec.IsRoot = rec.Type == graph.TypeRoot

	switch {
	case rec.IsRoot:
		// ROOT records have a name but no address.
		p.rootSeq++
		rec.ID = rootIDBase | p.rootSeq
		rec.Name = raw.Root
	default:
		addr, err := strconv.ParseUint(raw.Address, 0, 64)
		if err != nil || addr == 0 {
			return nil, fmt.Errorf("record without a valid address")
		}
		rec.ID = addr
		rec.Name = raw.Name
		if rec.Name == "" {
			rec.Name = previewValue(raw.Value)
		}
	}

	if len(raw.References) > 0 {
		rec.Refs = make([]uint64, 0, len(raw.References))
		for _, s := range raw.References {
			ref, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("bad reference %q: %w", s, err)
			}
			rec.Refs = append(rec.Refs, ref)
		}
	}
	return rec, nil
}

// previewValue turns the record's value field into a short display
// string. Values may be JSON strings or bare numbers depending on the
// object's type.
func previewValue(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

// Build reads an entire dump and constructs the immutable object graph:
// one streaming pass of record inserts, then super-root wiring. This is
// the only place a primary snapshot comes to life.
func Build(r io.Reader, log *zap.Logger) (*graph.Graph, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := graph.New(log)
	p := NewParser(r)
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		g.Add(rec.Object())
	}
	if n := p.Malformed(); n > 0 {
		log.Warn("skipped malformed dump lines", zap.Int("lines", n))
	}
	g.Finalize()
	return g, nil
}
