package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/service"
	"lifeos-backend/pkg/response"

	"github.com/go-playground/validator/v10"
)

// maxJSONBody bounds request bodies for JSON endpoints.
const maxJSONBody = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and validates it, writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			fields := make(map[string]string, len(validationErrs))
			for _, fe := range validationErrs {
				fields[fieldName(fe)] = fe.Tag()
			}
			response.Invalid(w, fields)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

// fieldName drops the struct prefix from a namespace such as CreateNoteRequest.tags[0].
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// writeServiceError maps errors shared by every resource. notFound is the 404 message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.Invalid(w, map[string]string{validationErr.Field: validationErr.Message})
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(w, notFound)
	default:
		contextutil.LoggerFromContext(r.Context()).Error("Request failed", "error", err)
		response.InternalError(w, "Internal server error")
	}
}
