package stream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T) (*Decoder, *[]string) {
	t.Helper()
	var got []string
	d := NewDecoder(func(delta string) { got = append(got, delta) })
	return d, &got
}

func TestDecoder_ReassemblesFrameAcrossChunks(t *testing.T) {
	d, got := collect(t)

	d.Feed("data: {\"del")
	d.Feed("ta\":\"Hel")
	d.Feed("lo\"}\n")
	d.Flush()

	assert.Equal(t, []string{"Hello"}, *got)
}

func TestDecoder_OrderingAndFiltering(t *testing.T) {
	d, got := collect(t)

	d.Feed("event: ping\n")
	d.Feed("data: {\"delta\":\"A\"}\n")
	d.Feed("data: {\"foo\":1}\n")
	d.Feed("data: {\"delta\":\"B\"}\n")
	d.Flush()

	assert.Equal(t, []string{"A", "B"}, *got)
}

func TestDecoder_FlushHandlesUnterminatedFinalLine(t *testing.T) {
	d, got := collect(t)

	d.Feed("data: {\"delta\":\"tail\"}")
	assert.Empty(t, *got, "incomplete line must be held back")

	d.Flush()
	assert.Equal(t, []string{"tail"}, *got)
}

func TestDecoder_SkipsMalformedAndNonStringDeltas(t *testing.T) {
	d, got := collect(t)

	d.Feed("data: {not json\n")
	d.Feed("data: {\"delta\": 42}\n")
	d.Feed("data: \n")
	d.Feed("id: 7\n")
	d.Feed("\n")
	d.Feed("data: {\"delta\":\"ok\"}\n")
	d.Flush()

	assert.Equal(t, []string{"ok"}, *got)
}

func TestDecoder_ByteAtATime(t *testing.T) {
	d, got := collect(t)

	input := "data: {\"delta\":\"one\"}\ndata: {\"delta\":\"two\"}\n"
	for i := 0; i < len(input); i++ {
		d.Feed(input[i : i+1])
	}
	d.Flush()

	assert.Equal(t, []string{"one", "two"}, *got)
}

func TestDecoder_TrimsCarriageReturnAndIndent(t *testing.T) {
	d, got := collect(t)

	d.Feed("  data: {\"delta\":\"x\"}\r\n")
	d.Flush()

	assert.Equal(t, []string{"x"}, *got)
}

func TestDecode_ReaderDriver(t *testing.T) {
	var got []string
	r := strings.NewReader("event: open\ndata: {\"delta\":\"A\"}\ndata: {\"delta\":\"B\"}")

	err := Decode(context.Background(), r, func(delta string) { got = append(got, delta) })
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}

type failingReader struct{ fed bool }

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.fed {
		f.fed = true
		return copy(p, "data: {\"delta\":\"partial\"}\n"), nil
	}
	return 0, errors.New("connection reset")
}

func TestDecode_TransportFailureKeepsDeliveredDeltas(t *testing.T) {
	var got []string
	err := Decode(context.Background(), &failingReader{}, func(delta string) { got = append(got, delta) })

	require.Error(t, err)
	assert.Equal(t, []string{"partial"}, got)
}

func TestDecode_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Decode(ctx, strings.NewReader("data: {\"delta\":\"x\"}\n"), func(string) {
		t.Fatal("no delta expected after cancellation")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
