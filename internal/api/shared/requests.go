package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into v, rejecting fields the
// target struct does not declare.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
