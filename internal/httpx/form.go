package httpx

import (
	"io"
	"net/url"
	"strings"
)

// encode builds an application/x-www-form-urlencoded body.
func (f FormBody) encode() (io.Reader, string, error) {
	values := url.Values{}
	for k, v := range f {
		values.Set(k, v)
	}
	return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
}
