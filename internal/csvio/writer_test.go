package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/mbp10/internal/book"
	"github.com/luxfi/mbp10/internal/engine"
)

func TestWriterHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	got := buf.String()
	assert.Contains(t, got, "ts_event,bid_px_00,bid_sz_00")
	assert.Contains(t, got, "ask_px_09,ask_sz_09")
}

func TestWriterEmitsEmptyFieldsForAbsentLevels(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	var snap engine.Snapshot
	snap.TimestampNS = 42
	snap.Book.Bids[0] = book.LevelView{Price: book.NewPriceTick(100, 0), Size: 10}

	require.NoError(t, w.WriteSnapshot(snap))
	require.NoError(t, w.Flush())

	want := "42,100,10" + strings.Repeat(",,", 19) + "\n"
	assert.Equal(t, want, buf.String())
}
