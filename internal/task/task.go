// Package task reads and writes editor task files.
//
// A task file is YAML (JSON is accepted as a YAML subset):
//
//	image: photo.png
//	mode: editSolution
//	answer: {x: 10, y: 20}
//	solution: [{x: 0, y: 0}, {x: 5, y: 0}, {x: 5, y: 5}, {x: 0, y: 0}]
//	annotations:
//	  - polygon: [{x: 1, y: 1}, {x: 2, y: 1}, {x: 2, y: 2}]
//	    color: "#ff0000"
//	annotationColors: [red, blue]
//
// Reading is lenient: a field of the wrong shape is dropped with a warning
// instead of failing the whole file.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/geom"
)

// Task is the content of a task file.
type Task struct {
	Image            string                  `json:"image,omitempty" yaml:"image,omitempty"`
	Mode             editor.Mode             `json:"mode,omitempty" yaml:"mode,omitempty"`
	Answer           *geom.Point             `json:"answer,omitempty" yaml:"answer,omitempty"`
	Solution         []geom.Point            `json:"solution" yaml:"solution"`
	Annotations      []editor.AnnotationData `json:"annotations" yaml:"annotations"`
	AnnotationColors []string                `json:"annotationColors,omitempty" yaml:"annotationColors,omitempty"`

	// Dir is the directory relative image paths resolve against.
	Dir string `json:"-" yaml:"-"`
}

// ErrNotMapping is returned when the document root is not a mapping.
var ErrNotMapping = errors.New("task document is not a mapping")

// Load reads a task file. Relative image paths resolve against its directory.
func Load(path string, log *logrus.Logger) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", path, err)
	}
	t, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", path, err)
	}
	t.Dir = filepath.Dir(path)
	return t, nil
}

// Parse decodes a task document. Only syntax errors and a non-mapping root
// are fatal.
func Parse(data []byte, log *logrus.Logger) (*Task, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	t := &Task{}
	if doc.Kind == 0 {
		return t, nil // empty document
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	r := reader{log: log}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "image":
			if val.Kind == yaml.ScalarNode {
				t.Image = val.Value
			} else {
				r.warn(key, "not a string")
			}
		case "mode":
			m, err := editor.ParseMode(val.Value)
			if err != nil || val.Kind != yaml.ScalarNode {
				r.warn(key, "unknown mode "+strconv.Quote(val.Value))
				continue
			}
			t.Mode = m
		case "answer":
			if p, ok := r.point(key, val); ok {
				t.Answer = &p
			}
		case "solution":
			t.Solution = r.points(key, val)
		case "annotations":
			t.Annotations = r.annotations(key, val)
		case "annotationColors":
			t.AnnotationColors = r.strings(key, val)
		default:
			log.WithField("key", key).Debug("ignoring unknown task key")
		}
	}
	return t, nil
}

type reader struct {
	log *logrus.Logger
}

func (r reader) warn(field, problem string) {
	r.log.WithFields(logrus.Fields{"field": field, "problem": problem}).Warn("task field treated as absent")
}

func (r reader) point(field string, n *yaml.Node) (geom.Point, bool) {
	if n.Kind != yaml.MappingNode {
		r.warn(field, "not a point")
		return geom.Point{}, false
	}
	var p geom.Point
	var hasX, hasY bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i].Value, n.Content[i+1]
		if k != "x" && k != "y" {
			continue
		}
		f, err := strconv.ParseFloat(v.Value, 64)
		if v.Kind != yaml.ScalarNode || err != nil {
			r.warn(field, "non-numeric "+k)
			return geom.Point{}, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			r.warn(field, "non-finite "+k)
			return geom.Point{}, false
		}
		if k == "x" {
			p.X, hasX = f, true
		} else {
			p.Y, hasY = f, true
		}
	}
	if !hasX || !hasY {
		r.warn(field, "missing coordinate")
		return geom.Point{}, false
	}
	return p, true
}

// points returns nil for a non-sequence. A malformed point drops the whole
// sequence since a polygon with a missing vertex is a different shape.
func (r reader) points(field string, n *yaml.Node) []geom.Point {
	if n.Kind != yaml.SequenceNode {
		r.warn(field, "not a sequence")
		return nil
	}
	out := make([]geom.Point, 0, len(n.Content))
	for i, c := range n.Content {
		p, ok := r.point(fmt.Sprintf("%s[%d]", field, i), c)
		if !ok {
			return nil
		}
		out = append(out, p)
	}
	return out
}

func (r reader) annotations(field string, n *yaml.Node) []editor.AnnotationData {
	if n.Kind != yaml.SequenceNode {
		r.warn(field, "not a sequence")
		return nil
	}
	var out []editor.AnnotationData
	for i, c := range n.Content {
		name := fmt.Sprintf("%s[%d]", field, i)
		if c.Kind != yaml.MappingNode {
			r.warn(name, "not a mapping")
			continue
		}
		var a editor.AnnotationData
		for j := 0; j+1 < len(c.Content); j += 2 {
			switch k, v := c.Content[j].Value, c.Content[j+1]; k {
			case "polygon":
				a.Polygon = r.points(name+".polygon", v)
			case "color":
				a.Color = strings.TrimSpace(v.Value)
			}
		}
		if len(a.Polygon) == 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (r reader) strings(field string, n *yaml.Node) []string {
	if n.Kind != yaml.SequenceNode {
		r.warn(field, "not a sequence")
		return nil
	}
	var out []string
	for _, c := range n.Content {
		if c.Kind == yaml.ScalarNode && strings.TrimSpace(c.Value) != "" {
			out = append(out, strings.TrimSpace(c.Value))
		}
	}
	return out
}

// ImagePath returns the image path resolved against Dir.
func (t *Task) ImagePath() string {
	if t.Image == "" || filepath.IsAbs(t.Image) || t.Dir == "" {
		return t.Image
	}
	return filepath.Join(t.Dir, t.Image)
}

// Options converts the task into editor construction options.
func (t *Task) Options() editor.Options {
	return editor.Options{
		Mode:             t.Mode,
		Answer:           t.Answer,
		Solution:         t.Solution,
		Annotations:      t.Annotations,
		AnnotationColors: t.AnnotationColors,
	}
}

// FromEditor captures the editor's current data, keeping image and mode
// from base.
func FromEditor(base *Task, e *editor.Editor) *Task {
	out := &Task{
		Solution:    e.ExportSolution(),
		Annotations: e.ExportAnnotations(),
		Answer:      e.Answer(),
		Mode:        e.Mode(),
	}
	if base != nil {
		out.Image = base.Image
		out.Dir = base.Dir
		out.AnnotationColors = base.AnnotationColors
	}
	return out
}

// Format selects the serialisation written by Marshal.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks JSON for .json paths and YAML otherwise.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Marshal encodes t. Nil sequences are written as empty ones.
func (t *Task) Marshal(f Format) ([]byte, error) {
	c := *t
	if c.Solution == nil {
		c.Solution = []geom.Point{}
	}
	if c.Annotations == nil {
		c.Annotations = []editor.AnnotationData{}
	}
	if f == FormatJSON {
		b, err := json.MarshalIndent(&c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return yaml.Marshal(&c)
}

// Save writes t to path in the format implied by its extension.
func (t *Task) Save(path string) error {
	data, err := t.Marshal(FormatFor(path))
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save task %s: %w", path, err)
	}
	return nil
}
