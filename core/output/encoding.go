package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding profiles accepted for delimited-text output. UTF-8 is the
// native encoding, so it needs no transform; the BOM variant exists for
// spreadsheet applications that otherwise misdetect the charset.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingWin1252 = "windows-1252"
	EncodingLatin1  = "iso-8859-1"
)

// EncodingProfiles lists the accepted profile names for flag validation.
func EncodingProfiles() []string {
	return []string{EncodingUTF8, EncodingUTF8BOM, EncodingUTF16LE, EncodingWin1252, EncodingLatin1}
}

func encoderFor(profile string) (*encoding.Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "", EncodingUTF8:
		return nil, nil
	case EncodingUTF8BOM:
		return unicode.UTF8BOM.NewEncoder(), nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), nil
	case EncodingWin1252:
		return charmap.Windows1252.NewEncoder(), nil
	case EncodingLatin1:
		return charmap.ISO8859_1.NewEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding profile %q (available: %s)",
			profile, strings.Join(EncodingProfiles(), ", "))
	}
}

// WrapEncoding layers the profile's character encoding over wc. Closing
// the returned writer flushes the transform and closes wc.
func WrapEncoding(wc io.WriteCloser, profile string) (io.WriteCloser, error) {
	enc, err := encoderFor(profile)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return wc, nil
	}
	tw := transform.NewWriter(wc, enc)
	return &compositeWriteCloser{
		Writer: tw,
		closeFunc: func() error {
			var err error
			if cerr := tw.Close(); cerr != nil {
				err = cerr
			}
			if ferr := wc.Close(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}, nil
}
