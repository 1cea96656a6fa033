package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// describeRequest is the body of POST /describe.
type describeRequest struct {
	Automation json.RawMessage   `json:"automation" validate:"required"`
	Nodes      []json.RawMessage `json:"nodes" validate:"omitempty,max=256,dive,required"`
}

// listAutomationsQuery holds the filters of GET /automations.
type listAutomationsQuery struct {
	NodeID string `validate:"omitempty,max=100"`
}

// pathID holds an ID taken from the URL.
type pathID struct {
	ID string `validate:"required,max=100"`
}

// validateRequest checks struct tags and reports the first failure in a
// readable form.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

// decodeBody decodes a JSON request body into v and validates it.
// It writes the error response and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	if err := validateRequest(v); err != nil {
		writeValidationError(w, err.Error())
		return false
	}
	return true
}

// urlID returns the validated {id} URL parameter.
// It writes the error response and returns false on failure.
func urlID(w http.ResponseWriter, id string) (string, bool) {
	if err := validateRequest(pathID{ID: id}); err != nil {
		writeBadRequest(w, "invalid ID: "+err.Error())
		return "", false
	}
	return id, true
}
