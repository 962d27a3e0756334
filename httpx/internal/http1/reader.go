package http1

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("http1: malformed request")

// ParseError reports why a message could not be parsed.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "http1: malformed request: " + e.Reason }

func (e *ParseError) Unwrap() error { return ErrMalformed }

// ParsedRequest is a minimal representation parsed from the wire.
type ParsedRequest struct {
	Method string
	Path   string
	Args   map[string]string
	Header map[string]string
	Body   string
}

// ParseRequest parses one complete message held in raw. The whole buffer
// is taken as a single request; there is no reassembly across reads.
func ParseRequest(raw []byte) (*ParsedRequest, error) {
	// Leading empty lines before the request line are ignored.
	text := strings.TrimLeft(string(raw), "\r\n")
	if Trim(text) == "" {
		return nil, &ParseError{Reason: "empty message"}
	}
	line, rest, _ := strings.Cut(text, "\r\n")

	slash := strings.IndexByte(line, '/')
	if slash < 0 {
		return nil, &ParseError{Reason: "missing request target"}
	}
	method := Trim(line[:slash])
	if method == "" || !validToken(method) {
		return nil, &ParseError{Reason: "invalid method " + quote(method)}
	}
	target := line[slash:]
	proto := strings.Index(target, "HTTP")
	if proto < 0 {
		return nil, &ParseError{Reason: "missing protocol version"}
	}
	pr := &ParsedRequest{
		Method: method,
		Args:   make(map[string]string),
		Header: make(map[string]string),
	}
	head := target[:proto]
	if q := strings.IndexByte(head, '?'); q >= 0 {
		pr.Path = Trim(head[:q])
		parseArgs(pr.Args, head[q+1:])
	} else {
		pr.Path = Trim(head)
	}

	pr.Body = Trim(parseHeaders(pr.Header, rest))
	return pr, nil
}

// parseArgs stores k=v pairs separated by '&'. Repeated keys keep the last value.
func parseArgs(args map[string]string, query string) {
	for _, pair := range strings.Split(query, "&") {
		if Trim(pair) == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		args[Trim(k)] = Trim(v)
	}
}

// parseHeaders consumes header lines up to the first blank line and returns
// whatever follows it. Running out of input also ends the header block. A
// line without a colon is stored as a key with an empty value.
func parseHeaders(h map[string]string, rest string) string {
	for rest != "" {
		var line string
		var more bool
		line, rest, more = strings.Cut(rest, "\r\n")
		if Trim(line) == "" {
			return rest
		}
		k, v, _ := strings.Cut(line, ":")
		h[Trim(k)] = Trim(v)
		if !more {
			break
		}
	}
	return ""
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// validToken reports whether s is an RFC 7230 token.
func validToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			continue
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	if len(s) > 32 {
		s = s[:32] + "..."
	}
	return strconv.Quote(s)
}
