package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerfarooq-dev/formflow/constants"
)

type fakeRunner struct {
	stdout []byte
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, nil, f.err
}

func TestWarmProbesOnce(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("tesseract 5.3.0")}
	e := NewEngine(Config{}, nil)
	e.runner = runner

	require.NoError(t, e.Warm(context.Background()))
	require.NoError(t, e.Warm(context.Background()))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"tesseract", "--version"}, runner.calls[0])
}

func TestWarmFailureIsMemoized(t *testing.T) {
	runner := &fakeRunner{err: errors.New("not found")}
	e := NewEngine(Config{}, nil)
	e.runner = runner

	err := e.Warm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract unavailable")

	// A warm failure sticks; Extract refuses without re-probing.
	_, err = e.Extract(context.Background(), "scan.png", constants.LangEnglish)
	require.Error(t, err)
	assert.Len(t, runner.calls, 1)
}

func TestExtractImageArgs(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("  Name: Ali Khan \n")}
	e := NewEngine(Config{TessdataDir: "/opt/tessdata"}, nil)
	e.runner = runner

	text, err := e.Extract(context.Background(), "scan.png", constants.LangUrdu)
	require.NoError(t, err)
	assert.Equal(t, "Name: Ali Khan", text)

	// calls[0] is the warm probe
	require.Len(t, runner.calls, 2)
	assert.Equal(t,
		[]string{"tesseract", "scan.png", "stdout", "-l", "urd", "--tessdata-dir", "/opt/tessdata"},
		runner.calls[1],
	)
}

func TestExtractEnglishModel(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("hello")}
	e := NewEngine(Config{}, nil)
	e.runner = runner

	_, err := e.Extract(context.Background(), "scan.jpeg", constants.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "-l", runner.calls[1][3])
	assert.Equal(t, "eng", runner.calls[1][4])
}

func TestExtractUnsupportedLanguage(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("ok")}
	e := NewEngine(Config{}, nil)
	e.runner = runner

	_, err := e.Extract(context.Background(), "scan.png", constants.Language("arabic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ocr language")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("ok")}
	e := NewEngine(Config{}, nil)
	e.runner = runner

	_, err := e.Extract(context.Background(), "notes.txt", constants.LangEnglish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}
