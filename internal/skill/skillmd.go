package skill

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// FrontMatter holds the YAML header of a SKILL.md document. Both fields
// are optional; they only feed display output.
type FrontMatter struct {
	Name        string
	Description string
}

// ParseSkillMD extracts the YAML front matter from a SKILL.md file.
// The document body is parsed but discarded.
func ParseSkillMD(path string) (FrontMatter, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FrontMatter{}, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()

	var buf bytes.Buffer
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return FrontMatter{}, errors.Wrap(err, "failed to parse skill file")
	}

	fields := meta.Get(pctx)
	var fm FrontMatter
	if v, ok := fields["name"].(string); ok {
		fm.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		fm.Description = v
	}
	return fm, nil
}
