package bitbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/pkg/bitbuf"
)

func TestPushAndGet(t *testing.T) {
	t.Parallel()

	pattern := []bool{true, false, false, true, true, true, false, true, false, true, true}

	buf := bitbuf.New()
	for _, bit := range pattern {
		buf.Push(bit)
	}

	require.Equal(t, len(pattern), buf.Len())
	for i, want := range pattern {
		got, err := buf.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "bit %d", i)
	}
}

func TestGetOutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bits  string
		index int
	}{
		{name: "empty buffer", bits: "", index: 0},
		{name: "index equals length", bits: "101", index: 3},
		{name: "negative index", bits: "1", index: -1},
		{name: "inside capacity but past length", bits: "1", index: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, err := bitbuf.Parse(tt.bits)
			require.NoError(t, err)

			_, err = buf.Get(tt.index)
			require.ErrorIs(t, err, bitbuf.ErrOutOfRange)
		})
	}
}

func TestGrowthKeepsBits(t *testing.T) {
	t.Parallel()

	buf := bitbuf.New()
	for i := range 1000 {
		buf.Push(i%3 == 0)
	}

	assert.Equal(t, 1000, buf.Len())
	assert.GreaterOrEqual(t, buf.Cap(), 1000)
	// Capacity only ever doubles from one byte.
	assert.Equal(t, 1024, buf.Cap())

	for i := range 1000 {
		got, err := buf.Get(i)
		require.NoError(t, err)
		if got != (i%3 == 0) {
			t.Fatalf("bit %d = %v after growth", i, got)
		}
	}
}

func TestAppendByte(t *testing.T) {
	t.Parallel()

	buf := bitbuf.New()
	buf.AppendByte(0b1100_0001)

	assert.Equal(t, "10000011", buf.String())
	assert.Equal(t, []byte{0b1100_0001}, buf.Bytes())
}

func TestAppendBuffer(t *testing.T) {
	t.Parallel()

	a, err := bitbuf.Parse("101")
	require.NoError(t, err)
	b, err := bitbuf.Parse("0011")
	require.NoError(t, err)

	a.AppendBuffer(b)
	a.AppendBuffer(nil)

	assert.Equal(t, "1010011", a.String())
	assert.Equal(t, "0011", b.String())
}

func TestBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits string
		want []byte
	}{
		{bits: "", want: []byte{}},
		{bits: "1", want: []byte{0x01}},
		{bits: "01", want: []byte{0x02}},
		{bits: "11111111", want: []byte{0xff}},
		{bits: "000000001", want: []byte{0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.bits, func(t *testing.T) {
			t.Parallel()

			buf, err := bitbuf.Parse(tt.bits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.Bytes())
		})
	}
}

func TestCloneAndEqual(t *testing.T) {
	t.Parallel()

	orig, err := bitbuf.Parse("110100111")
	require.NoError(t, err)

	clone := orig.Clone()
	assert.True(t, orig.Equal(clone))
	assert.Equal(t, orig.String(), clone.String())

	clone.Push(true)
	assert.False(t, orig.Equal(clone), "clone must not share storage with the original")
	assert.Equal(t, 9, orig.Len())

	// Same bits, different capacity.
	big := bitbuf.New()
	for range 64 {
		big.Push(false)
	}
	big.Reset()
	small := bitbuf.New()
	big.Push(true)
	small.Push(true)
	assert.True(t, big.Equal(small))
}

func TestZeroValue(t *testing.T) {
	t.Parallel()

	var buf bitbuf.Buffer
	assert.Equal(t, 0, buf.Len())

	buf.Push(true)
	buf.Push(false)
	assert.Equal(t, "10", buf.String())
	assert.Equal(t, "10", buf.Clone().String())
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := bitbuf.Parse("10x1")
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	t.Parallel()

	buf, err := bitbuf.Parse("1111")
	require.NoError(t, err)

	buf.Reset()
	assert.Equal(t, 0, buf.Len())

	buf.Push(false)
	got, err := buf.Get(0)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAll(t *testing.T) {
	t.Parallel()

	buf, err := bitbuf.Parse("1101")
	require.NoError(t, err)

	var got []bool
	for bit := range buf.All() {
		got = append(got, bit)
	}
	assert.Equal(t, []bool{true, true, false, true}, got)

	for range buf.All() {
		break
	}
}
