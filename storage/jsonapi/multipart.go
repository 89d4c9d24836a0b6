package jsonapi

import (
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/pkg/errors"
)

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// writeFilePart writes a binary part with an explicit content type;
// multipart.Writer.CreateFormFile would force application/octet-stream.
func writeFilePart(w *multipart.Writer, field, filename, contentType string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return errors.Wrapf(err, "creating %s part", field)
	}
	if _, err := part.Write(data); err != nil {
		return errors.Wrapf(err, "writing %s part", field)
	}
	return nil
}
