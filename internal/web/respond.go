package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 64 << 10

// Messages shown to app users.
const (
	msgAuth         = "auth error"
	msgNotFound     = "no data found"
	msgFetch        = "Unable to load recommendations, please try again"
	msgSuperseded   = "A newer request replaced this one"
	msgInternal     = "Something went wrong, please try again"
	msgInvalidMood  = "invalid mood"
	msgNeedMood     = "record a mood first or pass one with ?mood="
	msgInvalidBody  = "invalid request body"
	msgInvalidID    = "invalid entry id"
	msgNoteTooLong  = "journal entry is too long"
	msgEmptyPatch   = "nothing to update"
	msgInvalidLimit = "invalid limit"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("field %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
