package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

// Normalizable requests rewrite their fields into canonical form before validation.
type Normalizable interface {
	Normalize()
}

// Validatable requests check their wire shape. Registry rules stay in the
// mint pipeline.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare reads exactly one JSON object from the body into T, then
// runs Normalize and Validate when T has them. Unknown fields and trailing
// data are rejected. On failure it writes the error response and returns false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	ctx := r.Context()
	req := new(T)
	if err := decodeStrict(r.Body, req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, decodeError(err))
		return nil, false
	}

	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "invalid request",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			var domainErr *dErrors.Error
			if !errors.As(err, &domainErr) {
				err = dErrors.New(dErrors.CodeValidation, err.Error())
			}
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}

func decodeStrict(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// decodeError maps a body read failure to its domain error. Bodies cut off by
// the size limit middleware report CodeTooLarge.
func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return dErrors.New(dErrors.CodeTooLarge, "request body too large")
	}
	return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
}
