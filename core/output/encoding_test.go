package output

import (
	"bytes"
	"io"
	"testing"
)

type memWriteCloser struct {
	bytes.Buffer
	closed bool
}

func (m *memWriteCloser) Close() error {
	m.closed = true
	return nil
}

func encodeProfile(t *testing.T, profile, input string) (*memWriteCloser, []byte) {
	t.Helper()

	sink := &memWriteCloser{}
	wc, err := WrapEncoding(sink, profile)
	if err != nil {
		t.Fatalf("WrapEncoding(%q) error = %v", profile, err)
	}
	if _, err := io.WriteString(wc, input); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return sink, sink.Bytes()
}

func TestWrapEncoding_UTF8IsPassthrough(t *testing.T) {
	sink := &memWriteCloser{}
	wc, err := WrapEncoding(sink, EncodingUTF8)
	if err != nil {
		t.Fatalf("WrapEncoding() error = %v", err)
	}
	if wc != io.WriteCloser(sink) {
		t.Error("utf-8 profile must not wrap the writer")
	}
}

func TestWrapEncoding_UTF8BOMPrefix(t *testing.T) {
	sink, got := encodeProfile(t, EncodingUTF8BOM, "a,b\n")

	want := []byte{0xEF, 0xBB, 0xBF, 'a', ',', 'b', '\n'}
	if !bytes.Equal(got, want) {
		t.Errorf("bytes = % X, want % X", got, want)
	}
	if !sink.closed {
		t.Error("underlying writer not closed")
	}
}

func TestWrapEncoding_UTF16LE(t *testing.T) {
	_, got := encodeProfile(t, EncodingUTF16LE, "ab")

	want := []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("bytes = % X, want % X", got, want)
	}
}

func TestWrapEncoding_Windows1252(t *testing.T) {
	_, got := encodeProfile(t, EncodingWin1252, "café")

	want := []byte{'c', 'a', 'f', 0xE9}
	if !bytes.Equal(got, want) {
		t.Errorf("bytes = % X, want % X", got, want)
	}
}

func TestWrapEncoding_Latin1(t *testing.T) {
	_, got := encodeProfile(t, EncodingLatin1, "naïf")

	want := []byte{'n', 'a', 0xEF, 'f'}
	if !bytes.Equal(got, want) {
		t.Errorf("bytes = % X, want % X", got, want)
	}
}

func TestWrapEncoding_UnknownProfile(t *testing.T) {
	_, err := WrapEncoding(&memWriteCloser{}, "ebcdic")
	if err == nil {
		t.Fatal("unknown encoding profile must fail")
	}
}
