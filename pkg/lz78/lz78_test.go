package lz78_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/pkg/lz78"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []lz78.Pair
	}{
		{name: "empty", text: "", want: []lz78.Pair{}},
		{name: "single byte", text: "a", want: []lz78.Pair{{0, 'a'}}},
		{
			name: "aabb",
			text: "aabb",
			want: []lz78.Pair{{0, 'a'}, {1, 'b'}, {0, 'b'}},
		},
		{
			// "a" is known when input ends, so it is flushed as (0,'a').
			name: "dangling single byte",
			text: "aa",
			want: []lz78.Pair{{0, 'a'}, {0, 'a'}},
		},
		{
			name: "no dangling prefix",
			text: "aaa",
			want: []lz78.Pair{{0, 'a'}, {1, 'a'}},
		},
		{
			// "aa" is known when input ends: flushed as (1,'a').
			name: "dangling two bytes",
			text: "aaaaa",
			want: []lz78.Pair{{0, 'a'}, {1, 'a'}, {1, 'a'}},
		},
		{
			name: "abracadabra",
			text: "abracadabra",
			want: []lz78.Pair{
				{0, 'a'}, {0, 'b'}, {0, 'r'}, {1, 'c'}, {1, 'd'}, {1, 'b'}, {3, 'a'},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lz78.Encode([]byte(tt.text))
			assert.Equal(t, tt.want, got)

			decoded, err := lz78.Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.text, string(decoded))
		})
	}
}

func TestDictionaryLockStep(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"aabb", "aa", "aaa", "abababababab", "mississippi"} {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			enc := lz78.NewEncoder()
			dec := lz78.NewDecoder()
			require.Equal(t, enc.Len(), dec.Len())

			step := func(p lz78.Pair) {
				require.NoError(t, dec.Add(p))
				assert.Equal(t, enc.Len(), dec.Len(), "dictionary sizes diverged after %v", p)
			}

			for _, b := range []byte(text) {
				if p, ok := enc.Add(b); ok {
					step(p)
				}
			}
			if p, ok := enc.Flush(); ok {
				step(p)
			}

			assert.Equal(t, text, string(dec.Bytes()))
		})
	}
}

func TestFlushWithoutPending(t *testing.T) {
	t.Parallel()

	enc := lz78.NewEncoder()
	_, ok := enc.Flush()
	assert.False(t, ok)
	assert.Equal(t, 1, enc.Len())

	_, ok = enc.Add('x')
	require.True(t, ok)
	_, ok = enc.Flush()
	assert.False(t, ok)
}

func TestDecodeUnknownIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pairs []lz78.Pair
	}{
		{name: "forward reference", pairs: []lz78.Pair{{0, 'a'}, {2, 'b'}}},
		{name: "first pair not empty prefix", pairs: []lz78.Pair{{1, 'a'}}},
		{name: "negative index", pairs: []lz78.Pair{{-1, 'a'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := lz78.Decode(tt.pairs)
			require.ErrorIs(t, err, lz78.ErrUnknownIndex)
		})
	}
}

func TestDecoderPhraseLen(t *testing.T) {
	t.Parallel()

	dec := lz78.NewDecoder()
	size, ok := dec.PhraseLen(0)
	require.True(t, ok)
	assert.Zero(t, size)

	for _, p := range []lz78.Pair{{0, 'a'}, {1, 'b'}, {2, 'c'}} {
		require.NoError(t, dec.Add(p))
	}

	size, ok = dec.PhraseLen(3)
	require.True(t, ok)
	assert.Equal(t, 3, size)
	assert.Equal(t, 6, dec.Size())

	_, ok = dec.PhraseLen(4)
	assert.False(t, ok)
	_, ok = dec.PhraseLen(-1)
	assert.False(t, ok)
}

func TestRoundTripRandom(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	for i := range 300 {
		text := make([]byte, rng.IntN(400))
		alphabet := 1 + rng.IntN(8)
		for j := range text {
			text[j] = 'a' + byte(rng.IntN(alphabet))
		}

		got, err := lz78.Decode(lz78.Encode(text))
		require.NoError(t, err, "case %d", i)
		require.Equal(t, string(text), string(got), "case %d", i)
	}
}

func FuzzLZ78RoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("aa"))
	f.Add([]byte("aaa"))
	f.Add([]byte("aabb"))
	f.Add([]byte("\x00\x00\x00\x01"))

	f.Fuzz(func(t *testing.T, text []byte) {
		got, err := lz78.Decode(lz78.Encode(text))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if string(got) != string(text) {
			t.Fatalf("round trip = %q, want %q", got, text)
		}
	})
}
