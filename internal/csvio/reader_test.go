package csvio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/mbp10/internal/book"
	"github.com/luxfi/mbp10/internal/engine"
)

const sampleHeader = "ts_event,action,side,price,size,order_id,flags,ts_recv,ts_in_delta,sequence\n"

func TestReaderParsesValidRecord(t *testing.T) {
	input := sampleHeader + "1000,A,B,100.50,10,1,0,1001,0,7\n"
	r := NewReader(strings.NewReader(input))

	ev, perr, err := r.Next()
	require.NoError(t, err)
	require.Nil(t, perr)

	assert.Equal(t, uint64(1000), ev.TimestampNS)
	assert.Equal(t, engine.ActionAdd, ev.Action)
	assert.Equal(t, book.SideBid, ev.Side)
	assert.Equal(t, book.NewPriceTick(100, 50), ev.Price)
	assert.Equal(t, uint32(10), ev.Size)
	assert.Equal(t, uint64(1), ev.OrderID)
	assert.Equal(t, uint16(7), ev.Sequence)

	_, _, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderSurfacesParseErrorAndContinues(t *testing.T) {
	input := sampleHeader +
		"1000,A,B,abc,10,1,0,1001,0,1\n" +
		"2000,C,N,,0,1,0,2001,0,2\n"
	r := NewReader(strings.NewReader(input))

	_, perr, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, perr)
	var pe *ParseError
	require.ErrorAs(t, perr, &pe)
	assert.Equal(t, "price", pe.Field)

	ev, perr, err := r.Next()
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, engine.ActionCancel, ev.Action)
	assert.Equal(t, book.SideNone, ev.Side)
}

func TestReaderRejectsUnrecognizedSide(t *testing.T) {
	input := sampleHeader + "1000,A,X,100.00,10,1,0,1001,0,1\n"
	r := NewReader(strings.NewReader(input))

	_, perr, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, perr)
	var pe *ParseError
	require.ErrorAs(t, perr, &pe)
	assert.Equal(t, "side", pe.Field)
}

func TestReaderEmptyStreamReturnsHeaderError(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, _, err := r.Next()
	assert.Error(t, err)
}
