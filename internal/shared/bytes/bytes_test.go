package bytes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100MB", 100 * 1024 * 1024},
		{"1G", 1024 * 1024 * 1024},
		{"512K", 512 * 1024},
		{" 2GB ", 2 * 1024 * 1024 * 1024},
		{"512", 512},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-5MB"} {
		_, err := ParseSize(in)
		require.Error(t, err, in)
	}
}

func TestFmtMem(t *testing.T) {
	require.Equal(t, "512B", FmtMem(512))
	require.Equal(t, "1KB 0B", FmtMem(1024))
	require.Equal(t, "100MB 0KB", FmtMem(100*1024*1024))
	require.Equal(t, "4GB 96MB", FmtMem((4*1024+96)*1024*1024))
}
