package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Request bodies larger than this are rejected before decoding.
const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support structural
// validation. Validate returns error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest, rejecting unknown
// fields, and runs Validate when dest implements Validator. On failure it
// writes a 400 envelope carrying the individual messages in error.details
// and returns false; callers should return immediately in that case.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			writeValidationError(w, errs)
			return false
		}
	}
	return true
}

func writeValidationError(w http.ResponseWriter, errs []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    ErrCodeBadRequest,
			Message: strings.Join(errs, "; "),
			Details: errs,
		},
	})
}
