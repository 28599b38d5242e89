// Package report renders color results with pongo2 templates.
package report

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/flosch/pongo2"

	"github.com/mmuldo/kaleidoscope/match"
)

// DefaultTemplate lists one record per line, most frequent first.
const DefaultTemplate = `colors for {{ kind }} {{ owner }}
{% for r in records %}{{ forloop.Counter }}. {{ r.original }} -> {{ r.matched }} {{ r.frequency|floatformat:1 }}% (distance {{ r.distance|floatformat:2 }})
{% empty %}no colors found
{% endfor %}`

// Load compiles the template at path, or DefaultTemplate when path is empty.
func Load(path string) (*pongo2.Template, error) {
	if path == "" {
		return pongo2.FromString(DefaultTemplate)
	}

	f, e := ioutil.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("read template: %w", e)
	}
	tpl, e := pongo2.FromString(string(f))
	if e != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, e)
	}
	return tpl, nil
}

// Context builds the template variables for a result: kind, owner and
// records (each with original, matched, frequency and distance).
func Context(kind, owner string, res match.Result) pongo2.Context {
	records := make([]map[string]interface{}, len(res))
	for i, r := range res {
		records[i] = map[string]interface{}{
			"original":  "#" + r.OriginalHex(),
			"matched":   "#" + r.MatchedHex(),
			"frequency": r.Frequency,
			"distance":  r.Distance,
		}
	}

	return pongo2.Context{
		"kind":    kind,
		"owner":   owner,
		"records": records,
	}
}

// Render writes res for the given owner through tpl.
func Render(w io.Writer, tpl *pongo2.Template, kind, owner string, res match.Result) error {
	o, e := tpl.Execute(Context(kind, owner, res))
	if e != nil {
		return fmt.Errorf("render report: %w", e)
	}
	_, e = io.WriteString(w, o)
	return e
}
