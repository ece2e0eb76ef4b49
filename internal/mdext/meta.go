package mdext

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta holds document-level settings. Keys are lower case.
type Meta map[string]string

// Get returns the value for key, ignoring case.
func (m Meta) Get(key string) string {
	return m[strings.ToLower(key)]
}

var (
	metaLine         = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	metaContinuation = regexp.MustCompile(`^[ ]{4,}(.*)$`)
)

// ExtractMeta splits the metadata header off src. Two header styles are
// read: a YAML block fenced by "---" lines, and leading "Key: value" lines
// ended by a blank line. Only the first value of a list is kept. The body
// is returned without the header.
func ExtractMeta(src []byte) (Meta, []byte, error) {
	if bytes.HasPrefix(src, []byte("---\n")) || bytes.HasPrefix(src, []byte("---\r\n")) {
		return yamlMeta(src)
	}
	meta, body := keyValueMeta(src)
	return meta, body, nil
}

func yamlMeta(src []byte) (Meta, []byte, error) {
	lines := strings.SplitAfter(string(src), "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], "\r\n")
		if l == "---" || l == "..." {
			end = i
			break
		}
	}
	if end < 0 {
		// An opening rule without a closing one is a thematic break.
		return Meta{}, src, nil
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "")), &raw); err != nil {
		return nil, src, fmt.Errorf("parsing front matter: %w", err)
	}

	meta := make(Meta, len(raw))
	for k, v := range raw {
		meta[strings.ToLower(k)] = scalar(v)
	}
	return meta, []byte(strings.Join(lines[end+1:], "")), nil
}

func scalar(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		return scalar(v[0])
	}
	return fmt.Sprint(v)
}

func keyValueMeta(src []byte) (Meta, []byte) {
	meta := Meta{}
	lines := strings.SplitAfter(string(src), "\n")
	key := ""
	i := 0
	for ; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], "\r\n")
		if strings.TrimSpace(l) == "" {
			if i > 0 {
				i++ // the blank line belongs to the header
			}
			break
		}
		if m := metaLine.FindStringSubmatch(l); m != nil {
			key = strings.ToLower(m[1])
			if _, seen := meta[key]; !seen {
				meta[key] = strings.TrimSpace(m[2])
			}
			continue
		}
		if m := metaContinuation.FindStringSubmatch(l); m != nil && key != "" {
			if meta[key] == "" {
				meta[key] = strings.TrimSpace(m[1])
			}
			continue
		}
		// Not a header line: the document has no metadata.
		return Meta{}, src
	}
	return meta, []byte(strings.Join(lines[i:], ""))
}
