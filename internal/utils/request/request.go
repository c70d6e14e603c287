// Package request holds the request-parsing steps every handler repeats:
// decoding a JSON body and reading the {id} path value.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// ErrEmptyBody is returned by DecodeJSON when the body is required but
// empty.
var ErrEmptyBody = errors.New("request body is empty")

// ErrInvalidID is returned by PathID when {id} is not an integer.
var ErrInvalidID = errors.New("invalid id: must be an integer")

// DecodeJSON decodes the request body into v. An empty body is an error
// unless optional is true, in which case v is left untouched.
func DecodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		if optional {
			return nil
		}
		return ErrEmptyBody
	}
	return err
}

// PathID parses the {id} path value registered on the route pattern.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
