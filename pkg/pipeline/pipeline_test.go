package pipeline

import (
	"testing"

	"github.com/ajitpratap0/pipes/pkg/config"
	"github.com/ajitpratap0/pipes/pkg/errors"
	"github.com/ajitpratap0/pipes/pkg/pipe"
	"github.com/ajitpratap0/pipes/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fixture struct {
	*testutil.RecordingRegistry
}

func newFixture(types ...string) *fixture {
	return &fixture{testutil.NewRecordingRegistry(types...)}
}

// callsOf returns the factory calls made for one adapter type
func (f *fixture) callsOf(typ string) []testutil.FactoryCall {
	var out []testutil.FactoryCall
	for _, c := range f.Calls() {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func (f *fixture) pipeline(t *testing.T, spec Spec) (*Pipeline, error) {
	t.Helper()
	return New(spec, WithRegistry(f.Registry), WithLogger(testutil.TestLogger(t)))
}

func TestNew_Empty(t *testing.T) {
	f := newFixture("rest")

	p, err := f.pipeline(t, None())
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, f.Calls())
}

func TestAdd_Name(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, None())
	require.NoError(t, err)

	require.NoError(t, p.Add(Name("tasks")))

	got, ok := p.Get("tasks")
	require.True(t, ok)
	assert.Equal(t, "rest", got.Type())
	assert.Equal(t, "id", got.RecordID())

	require.Len(t, f.callsOf("rest"), 1)
	c := f.callsOf("rest")[0]
	assert.Equal(t, "tasks", c.Name)
	assert.Equal(t, "id", c.RecordID)
	assert.NotNil(t, c.Settings)
	assert.Empty(t, c.Settings)
}

func TestAdd_NoOp(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, Name("tasks"))
	require.NoError(t, err)

	for _, spec := range []Spec{None(), {}, Name(""), List()} {
		require.NoError(t, p.Add(spec))
	}
	assert.Equal(t, []string{"tasks"}, p.Names())
	assert.Len(t, f.callsOf("rest"), 1)
}

func TestAdd_ListEqualsSequentialAdds(t *testing.T) {
	f1 := newFixture("rest")
	batch, err := f1.pipeline(t, Names("n1", "n2"))
	require.NoError(t, err)

	f2 := newFixture("rest")
	seq, err := f2.pipeline(t, None())
	require.NoError(t, err)
	seq.MustAdd(Name("n1")).MustAdd(Name("n2"))

	assert.Equal(t, seq.Names(), batch.Names())
	assert.Equal(t, f2.Calls(), f1.Calls())
	assert.Equal(t, "n1", f1.callsOf("rest")[0].Name)
	assert.Equal(t, "n2", f1.callsOf("rest")[1].Name)
}

func TestAdd_MixedList(t *testing.T) {
	f := newFixture("rest", "memory")
	p, err := f.pipeline(t, List(
		Name("tasks"),
		Config(config.PipeConfig{Name: "tags", Type: "memory", RecordID: "uuid"}),
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"tags", "tasks"}, p.Names())
	tags, _ := p.Get("tags")
	assert.Equal(t, "memory", tags.Type())
	assert.Equal(t, "uuid", tags.RecordID())
}

func TestAdd_ConfigPassesArgumentsThrough(t *testing.T) {
	f := newFixture("mock")
	settings := pipe.Settings{"baseURL": "http://api", "nested": map[string]interface{}{"a": 1}}

	p, err := f.pipeline(t, Config(config.PipeConfig{
		Name:     "m",
		Type:     "mock",
		RecordID: "key",
		Settings: settings,
	}))
	require.NoError(t, err)

	require.Len(t, f.callsOf("mock"), 1)
	assert.Equal(t, testutil.FactoryCall{Type: "mock", Name: "m", RecordID: "key", Settings: settings}, f.callsOf("mock")[0])

	m, ok := p.Get("m")
	require.True(t, ok)
	assert.Equal(t, settings, m.(*testutil.StubPipe).Settings)
}

func TestAdd_ConfigDefaults(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, Config(config.PipeConfig{Name: "projects"}))
	require.NoError(t, err)

	got, ok := p.Get("projects")
	require.True(t, ok)
	assert.Equal(t, "rest", got.Type())
	assert.Equal(t, "id", got.RecordID())
}

func TestAdd_Overwrite(t *testing.T) {
	f := newFixture("rest", "other")
	p, err := f.pipeline(t, Config(config.PipeConfig{Name: "x", Type: "rest"}))
	require.NoError(t, err)
	first, _ := p.Get("x")

	require.NoError(t, p.Add(Config(config.PipeConfig{Name: "x", Type: "other"})))

	second, ok := p.Get("x")
	require.True(t, ok)
	assert.Equal(t, "other", second.Type())
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, p.Len())
}

func TestAdd_UnregisteredType(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, None())
	require.NoError(t, err)

	err = p.Add(Config(config.PipeConfig{Name: "y", Type: "bogus"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, ok := p.Get("y")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())
}

func TestAdd_MissingName(t *testing.T) {
	f := newFixture("memory")
	p, err := f.pipeline(t, None())
	require.NoError(t, err)

	err = p.Add(Config(config.PipeConfig{Type: "memory"}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, f.Calls())
}

func TestAdd_ListContinuesAndCollects(t *testing.T) {
	f := newFixture("rest")

	p, err := f.pipeline(t, List(
		Name("a"),
		Config(config.PipeConfig{Name: "bad", Type: "bogus"}),
		Config(config.PipeConfig{Type: "rest"}),
		Name("b"),
	))
	require.Error(t, err)
	require.NotNil(t, p)
	assert.Equal(t, []string{"a", "b"}, p.Names())

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.True(t, errors.IsType(errs[0], errors.ErrorTypeNotFound))
	assert.True(t, errors.IsType(errs[1], errors.ErrorTypeValidation))

	idx, ok := errors.Detail(errs[0], "index")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	idx, _ = errors.Detail(errs[1], "index")
	assert.Equal(t, 2, idx)
}

func TestMustAdd_Panics(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, None())
	require.NoError(t, err)

	assert.Panics(t, func() {
		p.MustAdd(Config(config.PipeConfig{Name: "y", Type: "bogus"}))
	})
	assert.Same(t, p, p.MustAdd(Name("tasks")))
}

func TestRemove(t *testing.T) {
	f := newFixture("rest")

	tests := []struct {
		name   string
		remove Spec
		want   []string
	}{
		{"none", None(), []string{"projects", "tags", "tasks"}},
		{"name", Name("tasks"), []string{"projects", "tags"}},
		{"absent name", Name("nonexistent"), []string{"projects", "tags", "tasks"}},
		{"config by name", Config(config.PipeConfig{Name: "tags", Type: "ignored"}), []string{"projects", "tasks"}},
		{"list", List(Name("tasks"), Config(config.PipeConfig{Name: "projects"})), []string{"tags"}},
		{"empty list", List(), []string{"projects", "tags", "tasks"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.pipeline(t, Names("tasks", "projects", "tags"))
			require.NoError(t, err)

			assert.Same(t, p, p.Remove(tt.remove))
			assert.Equal(t, tt.want, p.Names())
		})
	}
}

func TestRemove_Idempotent(t *testing.T) {
	f := newFixture("rest")
	once, err := f.pipeline(t, Names("tasks", "projects"))
	require.NoError(t, err)
	twice, err := f.pipeline(t, Names("tasks", "projects"))
	require.NoError(t, err)

	once.Remove(Name("tasks"))
	twice.Remove(Name("tasks")).Remove(Name("tasks"))

	assert.Equal(t, once.Names(), twice.Names())
}

func TestPipes_ReturnsCopy(t *testing.T) {
	f := newFixture("rest")
	p, err := f.pipeline(t, Name("tasks"))
	require.NoError(t, err)

	m := p.Pipes()
	delete(m, "tasks")
	assert.Equal(t, 1, p.Len())
}

func TestNew_FromPipelineConfig(t *testing.T) {
	f := newFixture("rest", "memory")
	pc := &config.PipelineConfig{Pipes: []config.PipeEntry{
		config.NameEntry("tasks"),
		config.NameEntry("projects"),
		config.ConfigEntry(config.PipeConfig{Name: "tags", Type: "memory"}),
	}}

	p, err := f.pipeline(t, FromConfig(pc))
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "tags", "tasks"}, p.Names())
}
