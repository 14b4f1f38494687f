package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxRequestBody caps request bodies. Document uploads are plain text and
// fit comfortably.
const maxRequestBody = 2 << 20

// validate caches struct metadata, so a single instance serves every handler.
var validate = validator.New()

// DecodeJSON decodes the request body into v, rejecting bodies larger than
// maxRequestBody.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(v)
}

// ValidateRequest checks v against its validate struct tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
