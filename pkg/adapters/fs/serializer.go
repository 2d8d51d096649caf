package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentchanti/kbregistry/pkg/core"
)

// ErrNoFrontmatter marks a Markdown file without a leading frontmatter
// block. Content files must open with one.
var ErrNoFrontmatter = errors.New("missing frontmatter block")

// ParseMarkdown reads a Markdown content file and splits it into
// frontmatter metadata and prose body. Parsing is deterministic and
// side-effect-free: the same bytes always yield the same structure.
func ParseMarkdown(r io.Reader) (core.Metadata, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, "", ErrNoFrontmatter
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		return nil, "", errors.New("frontmatter started but no closing delimiter found")
	}

	meta := make(core.Metadata)
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	body := strings.TrimPrefix(string(parts[1]), "\n")
	body = strings.TrimPrefix(body, "\r\n")

	return meta, body, nil
}

// SerializeMarkdown renders frontmatter metadata and a prose body back
// into a content file.
func SerializeMarkdown(meta core.Metadata, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(meta); err != nil {
		return nil, err
	}
	encoder.Close()
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// ParseErrorFile reads a YAML error dictionary: a list of mappings,
// one per error record. The raw mapping of each record is preserved so
// the validator can distinguish absent keys from empty values.
func ParseErrorFile(r io.Reader) ([]core.ErrorRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []core.Metadata
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if raw == nil {
		return nil, errors.New("not a YAML list of error entries")
	}

	var typed []core.ErrorRecord
	if err := yaml.Unmarshal(data, &typed); err != nil {
		return nil, fmt.Errorf("invalid error entry: %w", err)
	}

	for i := range typed {
		typed[i].Raw = raw[i]
	}
	return typed, nil
}
