package scaffold

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehmetkoksal-w/velo-assist/internal/naming"
	"github.com/mehmetkoksal-w/velo-assist/internal/prompt"
)

func newScaffolder(t *testing.T, answers *prompt.Answers) (*Scaffolder, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws/lib", 0o755))
	return New(fsys, answers, nil, nil), fsys
}

func read(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

var target = Target{Directory: "/ws/lib"}

func TestNewNotifier(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "CounterNotifier"})

	res, err := s.NewNotifier(context.Background(), target)
	require.NoError(t, err)

	path := filepath.Join("/ws/lib", "counter_notifier.dart")
	assert.Equal(t, []string{path}, res.Files)
	assert.Equal(t, path, res.Open)
	content := read(t, fsys, path)
	assert.Contains(t, content, "class CounterNotifier extends Velo<CounterState>")
	assert.Contains(t, content, "// import 'counter_state.dart';")
}

func TestNewNotifierInvalidName(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "counter"})

	_, err := s.NewNotifier(context.Background(), target)

	var verr *prompt.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, prompt.MsgNotifierName, verr.Message)
	exists, _ := afero.Exists(fsys, "/ws/lib/counter.dart")
	assert.False(t, exists)
}

func TestNewNotifierEmptyNameRejected(t *testing.T) {
	s, _ := newScaffolder(t, &prompt.Answers{})

	_, err := s.NewNotifier(context.Background(), target)

	var verr *prompt.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, prompt.MsgNameRequired, verr.Message)
}

func TestNewState(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{
		Name:       "CounterState",
		Properties: []string{"count:int:0", "label:String"},
	})

	res, err := s.NewState(context.Background(), target)
	require.NoError(t, err)

	content := read(t, fsys, res.Open)
	assert.Contains(t, content, "final int count;")
	assert.Contains(t, content, "this.count = 0")
	assert.Contains(t, content, "required this.label")
	assert.Contains(t, content, "[count, label]")
}

func TestNewStateWithoutProperties(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "EmptyState"})

	res, err := s.NewState(context.Background(), target)
	require.NoError(t, err)

	assert.Contains(t, read(t, fsys, res.Open), "const EmptyState({});")
}

func TestNewStateInvalidProperty(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "CounterState", Properties: []string{"count"}})

	_, err := s.NewState(context.Background(), target)

	var verr *prompt.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, prompt.MsgPropertyFormat, verr.Message)
	exists, _ := afero.Exists(fsys, "/ws/lib/counter_state.dart")
	assert.False(t, exists)
}

func TestNewNotifierWithState(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "Counter", Properties: []string{"count:int:0"}})

	res, err := s.NewNotifierWithState(context.Background(), target)
	require.NoError(t, err)

	statePath := filepath.Join("/ws/lib", "counter_state.dart")
	notifierPath := filepath.Join("/ws/lib", "counter_notifier.dart")
	assert.Equal(t, []string{statePath, notifierPath}, res.Files)
	assert.Equal(t, notifierPath, res.Open)

	assert.Contains(t, read(t, fsys, statePath), "class CounterState extends Equatable")
	notifier := read(t, fsys, notifierPath)
	assert.Contains(t, notifier, "import 'counter_state.dart';")
	assert.Contains(t, notifier, "class CounterNotifier extends Velo<CounterState>")
	assert.NotContains(t, notifier, "// TODO: Import your state class")
}

func TestNewNotifierWithStateDeclinedOverwriteWritesNothing(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "Counter"})
	require.NoError(t, afero.WriteFile(fsys, "/ws/lib/counter_notifier.dart", []byte("keep"), 0o644))

	_, err := s.NewNotifierWithState(context.Background(), target)

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, "keep", read(t, fsys, "/ws/lib/counter_notifier.dart"))
	exists, _ := afero.Exists(fsys, "/ws/lib/counter_state.dart")
	assert.False(t, exists, "state file must not be written when the notifier overwrite is declined")
}

func TestOverwriteAccepted(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "CounterNotifier", Overwrite: true})
	require.NoError(t, afero.WriteFile(fsys, "/ws/lib/counter_notifier.dart", []byte("old"), 0o644))

	_, err := s.NewNotifier(context.Background(), target)
	require.NoError(t, err)

	assert.Contains(t, read(t, fsys, "/ws/lib/counter_notifier.dart"), "class CounterNotifier")
}

func TestNewTest(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "counter_notifier"})

	res, err := s.NewTest(context.Background(), target)
	require.NoError(t, err)

	path := filepath.Join("/ws/lib", "test", "counter_notifier_test.dart")
	assert.Equal(t, path, res.Open)
	content := read(t, fsys, path)
	assert.Contains(t, content, "group('CounterNotifier', () {")
}

func TestTargetDirectoryFallbacks(t *testing.T) {
	s, fsys := newScaffolder(t, &prompt.Answers{Name: "CounterNotifier"})

	res, err := s.NewNotifier(context.Background(), Target{ActiveFile: "/ws/lib/main.dart"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/ws/lib", "counter_notifier.dart"), res.Open)

	_, err = s.NewNotifier(context.Background(), Target{})
	assert.True(t, errors.Is(err, naming.ErrNoTargetDirectory))
	exists, _ := afero.Exists(fsys, "counter_notifier.dart")
	assert.False(t, exists)
}

func TestCancelledContext(t *testing.T) {
	s, _ := newScaffolder(t, &prompt.Answers{Name: "CounterNotifier"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.NewNotifier(ctx, target)

	assert.ErrorIs(t, err, context.Canceled)
}

type decliner struct{}

func (decliner) Input(context.Context, prompt.InputRequest) (string, bool, error) {
	return "", false, nil
}

func (decliner) Choose(context.Context, prompt.ChoiceRequest) (string, bool, error) {
	return "", false, nil
}

func TestDeclinedNameCancels(t *testing.T) {
	s := New(afero.NewMemMapFs(), decliner{}, nil, nil)

	_, err := s.NewState(context.Background(), target)

	assert.ErrorIs(t, err, ErrCancelled)
}
