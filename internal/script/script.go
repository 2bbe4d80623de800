// Package script reads YAML edit scripts and schedules them on a medium.
//
// A script lists edits against the original content of a medium:
//
//	name: fix header
//	ops:
//	  - op: replace
//	    offset: 0
//	    size: 4
//	    text: "RIFF"
//	  - op: insert
//	    offset: 128
//	    hex: "00ff00ff"
//	  - op: remove
//	    offset: 512
//	    size: 16
//
// All offsets refer to the content before any op is applied. Payloads are
// given as text or as hex, never both.
package script

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/shiftplan/internal/action"
	"github.com/dshills/shiftplan/internal/medium"
)

// Errors returned by script parsing and application.
var (
	// ErrInvalidScript indicates a script that cannot be decoded or validated.
	ErrInvalidScript = errors.New("invalid edit script")

	// ErrEmptyScript indicates a script without ops.
	ErrEmptyScript = fmt.Errorf("%w: no ops", ErrInvalidScript)
)

// Script is a named list of edits.
type Script struct {
	Name string `yaml:"name,omitempty"`
	Ops  []Op   `yaml:"ops"`
}

// Op is a single edit of a script.
type Op struct {
	Op     string  `yaml:"op"`
	Offset int64   `yaml:"offset"`
	Size   *int64  `yaml:"size,omitempty"`
	Text   *string `yaml:"text,omitempty"`
	Hex    string  `yaml:"hex,omitempty"`

	line int
}

var opFields = map[string]bool{"op": true, "offset": true, "size": true, "text": true, "hex": true}

// UnmarshalYAML decodes an op and records its line for error messages.
func (o *Op) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !opFields[key.Value] {
				return fmt.Errorf("line %d: unknown op field %q", key.Line, key.Value)
			}
		}
	}

	type plain Op
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*o = Op(p)
	o.line = value.Line
	return nil
}

// Line returns the line of the op in its source, or 0 if unknown.
func (o Op) Line() int {
	return o.line
}

// Kind returns the edit kind named by the op.
func (o Op) Kind() (action.Kind, error) {
	k, err := action.ParseKind(o.Op)
	if err != nil {
		return 0, err
	}
	if !k.IsEdit() {
		return 0, fmt.Errorf("%w: %q is not an edit", action.ErrUnknownKind, o.Op)
	}
	return k, nil
}

// Payload returns the bytes given by text or hex and whether any were given.
func (o Op) Payload() ([]byte, bool, error) {
	switch {
	case o.Text != nil && o.Hex != "":
		return nil, false, errors.New("text and hex are mutually exclusive")
	case o.Text != nil:
		return []byte(*o.Text), true, nil
	case o.Hex != "":
		b, err := hex.DecodeString(o.Hex)
		if err != nil {
			return nil, false, fmt.Errorf("hex payload: %w", err)
		}
		return b, true, nil
	default:
		return nil, false, nil
	}
}

// edit is a validated op.
type edit struct {
	kind    action.Kind
	offset  int64
	size    int64
	payload []byte
}

func (o Op) edit() (edit, error) {
	kind, err := o.Kind()
	if err != nil {
		return edit{}, err
	}
	if o.Offset < 0 {
		return edit{}, fmt.Errorf("%w: %d", medium.ErrNegativeOffset, o.Offset)
	}
	payload, hasPayload, err := o.Payload()
	if err != nil {
		return edit{}, err
	}

	e := edit{kind: kind, offset: o.Offset, payload: payload}
	switch kind {
	case action.Insert:
		if !hasPayload {
			return edit{}, errors.New("insert needs text or hex")
		}
		e.size = int64(len(payload))
		if o.Size != nil && *o.Size != e.size {
			return edit{}, fmt.Errorf("insert size %d does not match payload length %d", *o.Size, e.size)
		}
	case action.Remove:
		if hasPayload {
			return edit{}, errors.New("remove takes no text or hex")
		}
		if o.Size == nil {
			return edit{}, errors.New("remove needs a size")
		}
		e.size = *o.Size
	case action.Replace:
		if !hasPayload {
			return edit{}, errors.New("replace needs text or hex")
		}
		if o.Size == nil {
			return edit{}, errors.New("replace needs a size")
		}
		e.size = *o.Size
	}
	if e.size < 0 {
		return edit{}, fmt.Errorf("%w: %d", medium.ErrNegativeSize, e.size)
	}
	return e, nil
}

// OpError describes a failed op.
type OpError struct {
	Index int    // Position of the op in the script
	Line  int    // Source line, 0 if unknown
	Op    string // Op name
	Err   error  // Underlying error
}

func (e *OpError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("op %d (%s, line %d): %v", e.Index, e.Op, e.Line, e.Err)
	}
	return fmt.Sprintf("op %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseBytes decodes and validates a script held in memory.
func ParseBytes(data []byte) (*Script, error) {
	return Parse(bytes.NewReader(data))
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks every op without scheduling anything.
func (s *Script) Validate() error {
	if len(s.Ops) == 0 {
		return ErrEmptyScript
	}
	for i, op := range s.Ops {
		if _, err := op.edit(); err != nil {
			return s.opError(i, fmt.Errorf("%w: %w", ErrInvalidScript, err))
		}
	}
	return nil
}

// SizeDelta returns by how many bytes the script grows a medium.
func (s *Script) SizeDelta() int64 {
	var d int64
	for _, op := range s.Ops {
		e, err := op.edit()
		if err != nil {
			continue
		}
		switch e.kind {
		case action.Insert:
			d += e.size
		case action.Remove:
			d -= e.size
		case action.Replace:
			d += int64(len(e.payload)) - e.size
		}
	}
	return d
}

// Reach returns the smallest medium length every op of the script fits in.
func (s *Script) Reach() int64 {
	var n int64
	for _, op := range s.Ops {
		e, err := op.edit()
		if err != nil {
			continue
		}
		end := e.offset
		if e.kind != action.Insert {
			end += e.size
		}
		n = max(n, end)
	}
	return n
}

func (s *Script) opError(i int, err error) error {
	return &OpError{Index: i, Line: s.Ops[i].line, Op: s.Ops[i].Op, Err: err}
}
