package task

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionmark/internal/editor"
	"github.com/example/regionmark/internal/geom"
)

func square() []geom.Point {
	return []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
}

func TestParseYAML(t *testing.T) {
	src := `
image: photo.png
mode: showSolution
answer: {x: 5, y: 6}
solution: [{x: 0, y: 0}, {x: 10, y: 0}, {x: 10, y: 10}, {x: 0, y: 10}, {x: 0, y: 0}]
annotations:
  - polygon: [{x: 1, y: 1}, {x: 2, y: 1}, {x: 2, y: 2}]
    color: "#ff0000"
annotationColors: [red, " blue "]
`
	tk, err := Parse([]byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", tk.Image)
	assert.Equal(t, editor.ModeShowSolution, tk.Mode)
	assert.Equal(t, &geom.Point{X: 5, Y: 6}, tk.Answer)
	assert.Equal(t, square(), tk.Solution)
	require.Len(t, tk.Annotations, 1)
	assert.Equal(t, "#ff0000", tk.Annotations[0].Color)
	assert.Len(t, tk.Annotations[0].Polygon, 3)
	assert.Equal(t, []string{"red", "blue"}, tk.AnnotationColors)
}

func TestParseJSON(t *testing.T) {
	src := `{"mode":"editAnnotations","solution":[],"annotations":[{"polygon":[{"x":1,"y":2},{"x":3,"y":4},{"x":5,"y":0}],"color":"navy"}]}`
	tk, err := Parse([]byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, editor.ModeEditAnnotations, tk.Mode)
	assert.Empty(t, tk.Solution)
	require.Len(t, tk.Annotations, 1)
	assert.Equal(t, geom.Pt(1, 2), tk.Annotations[0].Polygon[0])
}

func TestParseMalformedFieldsAreAbsent(t *testing.T) {
	log, hook := test.NewNullLogger()
	src := `
mode: drawSomething
answer: [1, 2]
solution: {x: 1, y: 2}
annotations:
  - polygon: [{x: 1, y: one}]
  - polygon: 7
  - 12
  - polygon: [{x: 1, y: 1}, {x: 2, y: 2}, {x: 3, y: 1}]
annotationColors: red
`
	tk, err := Parse([]byte(src), log)
	require.NoError(t, err)
	assert.Equal(t, editor.ModeNone, tk.Mode)
	assert.Nil(t, tk.Answer)
	assert.Nil(t, tk.Solution)
	require.Len(t, tk.Annotations, 1, "only the well-formed annotation survives")
	assert.Nil(t, tk.AnnotationColors)

	var warned []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = append(warned, e.Data["field"].(string))
		}
	}
	assert.Contains(t, warned, "mode")
	assert.Contains(t, warned, "answer")
	assert.Contains(t, warned, "solution")
	assert.Contains(t, warned, "annotations[0].polygon[0]")
	assert.Contains(t, warned, "annotations[2]")
	assert.Contains(t, warned, "annotationColors")
}

func TestParsePointCoordinates(t *testing.T) {
	log, hook := test.NewNullLogger()
	src := `
answer: {x: NaN, y: 1}
solution: [{x: 0, y: 0, label: corner}, {x: 4, y: 0}, {x: 4, y: 4}, {x: 0, y: 0}]
annotations:
  - polygon: [{x: 1, y: Inf}, {x: 2, y: 2}, {x: 3, y: 1}]
`
	tk, err := Parse([]byte(src), log)
	require.NoError(t, err)
	assert.Nil(t, tk.Answer)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 0}}, tk.Solution)
	assert.Empty(t, tk.Annotations)

	var problems []string
	for _, e := range hook.AllEntries() {
		problems = append(problems, e.Data["problem"].(string))
	}
	assert.Contains(t, problems, "non-finite x")
	assert.Contains(t, problems, "non-finite y")
	assert.NotContains(t, problems, "non-numeric label")

	_, err = tk.Marshal(FormatJSON)
	assert.NoError(t, err)
}

func TestParseRejectsNonMapping(t *testing.T) {
	_, err := Parse([]byte("- 1\n- 2\n"), nil)
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = Parse([]byte("a: [\n"), nil)
	assert.Error(t, err)

	tk, err := Parse(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tk.Solution)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &Task{
		Image:       "img/photo.png",
		Mode:        editor.ModeEditSolution,
		Answer:      &geom.Point{X: 1, Y: 2},
		Solution:    square(),
		Annotations: []editor.AnnotationData{{Polygon: square(), Color: "#00ff00"}},
	}
	for _, name := range []string{"task.yaml", "task.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, in.Save(path))

			out, err := Load(path, nil)
			require.NoError(t, err)
			assert.Equal(t, in.Solution, out.Solution)
			assert.Equal(t, in.Annotations, out.Annotations)
			assert.Equal(t, in.Answer, out.Answer)
			assert.Equal(t, in.Mode, out.Mode)
			assert.Equal(t, filepath.Join(dir, "img", "photo.png"), out.ImagePath())
		})
	}
}

func TestMarshalWritesEmptySequences(t *testing.T) {
	b, err := (&Task{}).Marshal(FormatJSON)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(b, []byte(`"solution": []`)), string(b))
	assert.False(t, bytes.Contains(b, []byte(`answer`)))
}

func TestFromEditorExportsClosedSolution(t *testing.T) {
	tk := &Task{Mode: editor.ModeEditSolution, Solution: square(), Image: "a.png"}
	log, _ := test.NewNullLogger()
	opts := tk.Options()
	opts.Logger = log
	e := editor.New(opts)
	defer e.Dispose()

	out := FromEditor(tk, e)
	assert.Equal(t, "a.png", out.Image)
	assert.Equal(t, square(), out.Solution)
	assert.Empty(t, out.Annotations)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "load task")
}
