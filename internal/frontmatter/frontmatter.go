// Package frontmatter splits content files into a YAML front matter block
// and a body, and renders them back. The front matter is kept as a YAML node
// tree so unknown keys and their order survive a round trip.
package frontmatter

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

var closingFenceRe = regexp.MustCompile(`(?m)^---[ \t]*$`)

// File is a parsed content file.
type File struct {
	// Body is everything after the closing fence, or the whole content
	// when no front matter block was found.
	Body string

	doc *yaml.Node
}

// Parse splits content into front matter and body. Content without a
// leading fence, or with an unterminated or unparseable block, is treated
// as all body.
func Parse(content string) *File {
	f := &File{Body: content}
	if !strings.HasPrefix(content, fence+"\n") {
		return f
	}

	rest := content[len(fence)+1:]
	loc := closingFenceRe.FindStringIndex(rest)
	if loc == nil {
		return f
	}
	block := rest[:loc[0]]
	body := strings.TrimPrefix(rest[loc[1]:], "\n")

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return f
	}
	if doc.Kind == 0 {
		// An empty or comment-only block decodes to nothing at all;
		// normalize it so the keys can still be edited and rendered.
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	if len(doc.Content) > 0 && doc.Content[0].Kind != yaml.MappingNode {
		return f
	}

	f.doc = &doc
	f.Body = body
	return f
}

// HasFrontMatter reports whether a front matter block was parsed.
func (f *File) HasFrontMatter() bool {
	return f.doc != nil
}

// Excerpt reports the excerpt front matter key. present is true whenever
// the key exists at all; value is non-nil only when the key holds a string.
// An explicit null (or any non-string value) reports (nil, true).
func (f *File) Excerpt() (value *string, present bool) {
	val := f.lookup("excerpt")
	if val == nil {
		return nil, false
	}
	if val.Tag == "!!null" {
		return nil, true
	}
	var s string
	if err := val.Decode(&s); err != nil {
		return nil, true
	}
	return &s, true
}

// SetExcerpt sets the excerpt key, creating the front matter block when the
// file had none.
func (f *File) SetExcerpt(value string) {
	m := f.mapping()
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == "excerpt" {
			m.Content[i+1] = node
			return
		}
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "excerpt"}
	m.Content = append(m.Content, key, node)
}

// Render reassembles the file: fenced front matter followed by the body.
func (f *File) Render() (string, error) {
	if f.doc == nil {
		return f.Body, nil
	}
	if len(f.doc.Content) == 0 || len(f.doc.Content[0].Content) == 0 {
		// A keyless mapping would marshal as "{}"; keep the block empty.
		return fence + "\n" + fence + "\n" + f.Body, nil
	}
	out, err := yaml.Marshal(f.doc)
	if err != nil {
		return "", err
	}
	return fence + "\n" + string(out) + fence + "\n" + f.Body, nil
}

// lookup returns the value node for key, or nil.
func (f *File) lookup(key string) *yaml.Node {
	if f.doc == nil || len(f.doc.Content) == 0 {
		return nil
	}
	m := f.doc.Content[0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// mapping returns the front matter mapping node, creating the whole block
// when absent.
func (f *File) mapping() *yaml.Node {
	if f.doc == nil {
		f.doc = &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	} else if len(f.doc.Content) == 0 {
		f.doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	return f.doc.Content[0]
}
