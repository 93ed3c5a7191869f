package load

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// DuplicateMode controls how duplicate object keys in JSON input are reported.
type DuplicateMode int

const (
	DupWarn DuplicateMode = iota
	DupError
	DupIgnore
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
}

// DuplicateKey is a key seen more than once in the same JSON object.
type DuplicateKey struct {
	Path string
	Key  string
}

// detectDuplicateKeys walks the token stream of data and reports every
// repeated key together with the JSON pointer of its object.
func detectDuplicateKeys(data []byte) ([]DuplicateKey, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out []DuplicateKey
	var stack []dupFrame

	// valueDone marks the end of a value inside the enclosing container.
	valueDone := func() {
		if n := len(stack); n > 0 {
			top := &stack[n-1]
			switch top.kind {
			case kindObject:
				top.expectingKey = true
			case kindArray:
				top.index++
			}
		}
	}
	pointer := func() string {
		b := &strings.Builder{}
		for i, f := range stack {
			if i == len(stack)-1 {
				break
			}
			b.WriteByte('/')
			if f.kind == kindObject {
				b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(f.key))
			} else {
				b.WriteString(strconv.Itoa(f.index))
			}
		}
		if b.Len() == 0 {
			return "/"
		}
		return b.String()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		switch v := tok.(type) {
		case gojson.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray})
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if top.kind == kindObject && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						out = append(out, DuplicateKey{Path: pointer(), Key: v})
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
}
