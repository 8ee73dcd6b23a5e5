package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestFileSource_ReadAll(t *testing.T) {
	feed := validLine() + "\n" +
		"\n" + // blank lines skipped
		"not json\n" +
		validLine() + "\n"

	src := NewFileSource(writeFeed(t, feed))
	items, err := src.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.NotNil(t, items[0].Event)
	assert.Equal(t, 1, items[0].Line)

	// Line 2 is blank and dropped; line 3 is the malformed one.
	assert.Nil(t, items[1].Event)
	assert.Error(t, items[1].Err)
	assert.Equal(t, 3, items[1].Line)

	assert.NotNil(t, items[2].Event)
	assert.Equal(t, 4, items[2].Line)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.jsonl")).ReadAll(context.Background())
	assert.Error(t, err)
}

func TestFileSource_CancelledContext(t *testing.T) {
	src := NewFileSource(writeFeed(t, validLine()+"\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
