package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/harrison/varsub/internal/document"
	"github.com/harrison/varsub/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrParse is returned when a document cannot be decoded.
	ErrParse = errors.New("unable to parse document")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatOf returns the document format implied by the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return models.FormatJSON, nil
	case ".yml", ".yaml":
		return models.FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s (expected json, yml or yaml)", ErrUnsupportedFormat, path)
}

// source is a decoded file. Byte order mark and final newline are recorded
// so the rewritten file keeps them.
type source struct {
	format  string
	docs    []any
	bom     bool
	newline bool
}

// decode parses data into one value per document. JSON files hold exactly
// one document, decoded with key order kept; YAML files may hold several
// separated by "---", each decoded to a node tree so comments survive.
func decode(format string, data []byte) (*source, error) {
	src := &source{format: format}
	if bytes.HasPrefix(data, utf8BOM) {
		src.bom = true
		data = data[len(utf8BOM):]
	}
	src.newline = bytes.HasSuffix(data, []byte("\n"))

	switch format {
	case models.FormatJSON:
		doc, err := document.DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w as JSON: %w", ErrParse, err)
		}
		src.docs = []any{doc}
		return src, nil

	case models.FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var doc yaml.Node
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%w as YAML: %w", ErrParse, err)
			}
			src.docs = append(src.docs, &doc)
		}
		return src, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// encode renders the documents back into their file format.
func (src *source) encode(indent int) ([]byte, error) {
	var buf bytes.Buffer
	if src.bom {
		buf.Write(utf8BOM)
	}

	switch src.format {
	case models.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", strings.Repeat(" ", indent))
		for _, doc := range src.docs {
			if err := enc.Encode(doc); err != nil {
				return nil, fmt.Errorf("failed to encode JSON: %w", err)
			}
		}
		if !src.newline {
			buf.Truncate(buf.Len() - 1)
		}

	case models.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		for _, doc := range src.docs {
			if err := enc.Encode(doc); err != nil {
				return nil, fmt.Errorf("failed to encode YAML: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.format)
	}

	return buf.Bytes(), nil
}
