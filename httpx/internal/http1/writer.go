package http1

import (
	"io"
	"sort"
	"strconv"
	"strings"
)

// AppendResponse appends a complete HTTP/1.1 response to dst: status line,
// one line per header, a blank line, then body verbatim. Headers are
// emitted in sorted key order. No Content-Length or Connection header is
// added; callers set what they need.
func AppendResponse(dst []byte, status int, reason string, hdr map[string]string, body []byte) []byte {
	if reason == "" {
		reason = defaultReason(status)
	}
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(status), 10)
	dst = append(dst, ' ')
	dst = append(dst, sanitizeHeaderValue(reason)...)
	dst = append(dst, "\r\n"...)
	keys := make([]string, 0, len(hdr))
	for k := range hdr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dst = append(dst, sanitizeHeaderValue(k)...)
		dst = append(dst, ": "...)
		dst = append(dst, sanitizeHeaderValue(hdr[k])...)
		dst = append(dst, "\r\n"...)
	}
	dst = append(dst, "\r\n"...)
	return append(dst, body...)
}

// WriteResponse builds the full response before writing any of it, then
// writes until every byte is accepted or w fails.
func WriteResponse(w io.Writer, status int, reason string, hdr map[string]string, body []byte) (int, error) {
	return WriteFull(w, AppendResponse(nil, status, reason, hdr, body))
}

// WriteFull writes p to w, retrying short writes.
func WriteFull(w io.Writer, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := w.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

func defaultReason(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	default:
		return ""
	}
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	if strings.IndexFunc(v, isCtl) < 0 {
		return v
	}
	// Remove CR/LF and other control chars except HTAB
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if isCtl(rune(c)) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isCtl(r rune) bool {
	return r == 0x7f || (r < 0x20 && r != '\t')
}
