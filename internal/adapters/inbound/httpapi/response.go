package httpapi

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/zzptax/zzptax/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encoding response failed")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeErrorResponse(ctx, ErrorResponse{Status: status, Message: message})
}

func writeErrorResponse(ctx *fasthttp.RequestCtx, resp ErrorResponse) {
	data, _ := json.Marshal(resp)
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(resp.Status)
	ctx.SetBody(data)
}

// errorResponse maps engine errors to HTTP: rejected input is the caller's
// fault, an unknown year is well-formed but unprocessable, anything else is
// ours and is not described to the client.
func errorResponse(err error) ErrorResponse {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorResponse{Status: fasthttp.StatusBadRequest, Message: err.Error(), Field: ve.Field}
	case errors.Is(err, domain.ErrInvalidRate):
		return ErrorResponse{Status: fasthttp.StatusBadRequest, Message: err.Error(), Field: "rate"}
	case errors.Is(err, domain.ErrUnsupportedYear):
		return ErrorResponse{Status: fasthttp.StatusUnprocessableEntity, Message: err.Error(), Field: "year"}
	default:
		return ErrorResponse{Status: fasthttp.StatusInternalServerError, Message: "internal error"}
	}
}
