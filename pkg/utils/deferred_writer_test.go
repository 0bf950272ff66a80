package utils

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_Flush(t *testing.T) {
	var d DeferredWriter

	_, _ = d.Write([]byte("one\n"))
	_, _ = d.Write([]byte("two\n"))
	assert.Equal(t, 8, d.Len())

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "one\ntwo\n", out.String())
	assert.Equal(t, 0, d.Len())

	out.Reset()
	require.NoError(t, d.Flush(&out))
	assert.Empty(t, out.String())
}

func TestDeferredWriter_Limit(t *testing.T) {
	d := DeferredWriter{Limit: 4}

	n, err := d.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "... 2 bytes of earlier output dropped\ncdef", out.String())
}

func TestDeferredWriter_Concurrent(t *testing.T) {
	var d DeferredWriter
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(&d, "%d", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, d.Len())
}
