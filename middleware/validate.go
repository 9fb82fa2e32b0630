package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"stakevault/utils"
)

// parse/validate budget, independent of the outer request timeout
const decodeTimeout = 10 * time.Second

// ValidateJSON decodes the request body into dst and runs the struct
// validator. On failure it has already written the error response, so
// callers just return.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		utils.WriteJSON(w, http.StatusUnsupportedMediaType, utils.APIResponse{Success: false, Message: "Content-Type must be application/json"})
		return http.ErrNotSupported
	}

	ctx, cancel := context.WithTimeout(r.Context(), decodeTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return err
	}

	if err := utils.ValidateStruct(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation failed", Data: err.Error()})
		return err
	}
	return nil
}
