package datauri

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 最小的PNG文件头，足够让mimetype识别
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("hello"),
		pngHeader,
		{0x00, 0xff, 0x10, 0x80},
	}
	for _, data := range payloads {
		f, err := Decode(EncodeBytes(data, "image/png"), "a.png")
		require.NoError(t, err)
		assert.Equal(t, "a.png", f.Name)
		assert.Equal(t, "image/png", f.MIME)
		assert.True(t, bytes.Equal(data, f.Data))
	}
}

func TestEncodeDetectsMIME(t *testing.T) {
	uri, err := Encode(bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")

	f, err := Decode(uri, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, f.Data)
	assert.Equal(t, uri, f.DataURI())
	assert.Equal(t, len(pngHeader), f.Size())
}

func TestEncodeStripsCharset(t *testing.T) {
	uri, err := Encode(bytes.NewReader([]byte("plain text")))
	require.NoError(t, err)
	assert.Contains(t, uri, "data:text/plain;base64,")
}

func TestEncodePropagatesReadError(t *testing.T) {
	_, err := Encode(failingReader{})
	assert.ErrorContains(t, err, "disk gone")
}

func TestDecodeKnownValue(t *testing.T) {
	f, err := Decode("data:image/png;base64,AAAA", "a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0}, f.Data)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"no scheme":     "image/png;base64,AAAA",
		"no comma":      "data:image/png;base64AAAA",
		"not base64":    "data:image/png,AAAA",
		"empty mime":    "data:;base64,AAAA",
		"bad mime":      "data:png;base64,AAAA",
		"bad payload":   "data:image/png;base64,@@@",
		"empty string":  "",
		"only a scheme": "data:",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Decode(input, "x.png")
			assert.Nil(t, f)
			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}

func TestDecodeKeepsMIMEWithoutParameters(t *testing.T) {
	f, err := Decode("data:text/plain;charset=utf-8;base64,aGk=", "hi.txt")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.MIME)
	assert.Equal(t, "hi", string(f.Data))
}

func TestReadKeepsNameAndBytes(t *testing.T) {
	f, err := Read("banner.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "banner.png", f.Name)
	assert.Equal(t, "image/png", f.MIME)
	assert.Equal(t, pngHeader, f.Data)

	_, err = Read("broken.png", failingReader{})
	assert.ErrorContains(t, err, "broken.png")
}
