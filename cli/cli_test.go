package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/jfvdberg/taxfolio/balance"
	"github.com/jfvdberg/taxfolio/journal"
)

const sampleJournal = `{
  "transactions": [
    {
      "date": "2023-01-10",
      "payee": "Broker",
      "postings": [
        {"account": "assets:broker:aapl", "amount": {"quantity": "10", "commodity": "AAPL"},
         "cost": {"kind": "total", "quantity": "1500", "commodity": "USD"}},
        {"account": "assets:broker:cash", "amount": {"quantity": "-1500", "commodity": "USD"}}
      ]
    }
  ]
}`

func writeJournal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileOrStdin(t *testing.T) {
	t.Run("file input", func(t *testing.T) {
		path := writeJournal(t, sampleJournal)
		f := &FileOrStdin{Filename: path}

		assert.False(t, f.IsStdin())
		assert.True(t, filepath.IsAbs(f.GetAbsoluteFilename()))

		txs, err := f.LoadJournal(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 1, len(txs))
		assert.Equal(t, "Broker", txs[0].Payee)
	})

	t.Run("stdin contents", func(t *testing.T) {
		f := &FileOrStdin{Filename: "<stdin>", Contents: []byte(sampleJournal)}

		assert.True(t, f.IsStdin())
		assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())

		source, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.Equal(t, []byte(sampleJournal), source)

		txs, err := f.LoadJournal(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 1, len(txs))
	})
}

func TestErrorRenderer(t *testing.T) {
	t.Run("plain error without position", func(t *testing.T) {
		r := NewErrorRenderer(nil)
		out := r.Render(errors.New("boom"))
		assert.Contains(t, out, "boom")
	})

	t.Run("source context for positioned error", func(t *testing.T) {
		source := "line one\nline two\nline three\n"
		r := NewErrorRenderer([]byte(source))

		err := &balance.TransactionError{
			Pos:   journal.Position{Filename: "journal.json", Line: 2, Column: 1},
			Payee: "broker",
			Err:   errors.New("does not balance"),
		}

		out := r.Render(err)
		assert.Contains(t, out, "does not balance")
		assert.Contains(t, out, "line two")
		assert.Contains(t, out, "^")
	})

	t.Run("render all separates errors", func(t *testing.T) {
		r := NewErrorRenderer(nil)
		out := r.RenderAll([]error{errors.New("first"), errors.New("second")})
		assert.Contains(t, out, "first")
		assert.Contains(t, out, "second")
		assert.True(t, strings.Contains(out, "\n\n"))
	})
}

func TestCommandError(t *testing.T) {
	err := NewCommandError(1)
	assert.Equal(t, 1, err.ExitCode())
	assert.Equal(t, "command failed", err.Error())

	var target *CommandError
	assert.True(t, errors.As(error(err), &target))
}
