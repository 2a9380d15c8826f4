package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
	"github.com/tjfontaine/salon-intake/internal/flow"
	"github.com/tjfontaine/salon-intake/internal/newsletter"
	"github.com/tjfontaine/salon-intake/internal/server"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error *domain.APIError `json:"error"`
}

// ToAPIError maps an error from any layer onto the canonical API error.
func ToAPIError(err error) *domain.APIError {
	if err == nil {
		return nil
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		return domain.ErrValidation(fields)
	}

	var providerErr *newsletter.ProviderError
	if errors.As(err, &providerErr) {
		return domain.ErrInvalidRequest(providerErr.Err.Error()).
			WithCode(domain.ErrorCodeMailjetError)
	}

	switch {
	case errors.Is(err, catalog.ErrUnknownCategory):
		return domain.ErrInvalidRequest(err.Error()).WithParam("category")
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrResourceNotFound(err.Error())

	case errors.Is(err, flow.ErrUnanswered):
		return domain.ErrPrecondition(err.Error()).WithCode(domain.ErrorCodeUnanswered)
	case errors.Is(err, flow.ErrNotCompleted):
		return domain.ErrPrecondition(err.Error()).WithCode(domain.ErrorCodeNotCompleted)
	case errors.Is(err, flow.ErrMissingSignature):
		return domain.ErrPrecondition(err.Error()).WithCode(domain.ErrorCodeMissingSignature)
	case errors.Is(err, flow.ErrFinalized):
		return domain.ErrConflict(err.Error()).WithCode(domain.ErrorCodeFinalized)
	case errors.Is(err, flow.ErrCompleted):
		return domain.ErrConflict(err.Error())
	case errors.Is(err, flow.ErrHidden),
		errors.Is(err, flow.ErrUnknownQuestion),
		errors.Is(err, flow.ErrInvalidAnswer):
		return domain.ErrInvalidRequest(err.Error())

	case errors.Is(err, newsletter.ErrMissingFields):
		return domain.ErrInvalidRequest("Missing fields").WithCode(domain.ErrorCodeMissingFields)
	case errors.Is(err, newsletter.ErrNotConfigured):
		return domain.ErrServer("Server not configured").WithCode(domain.ErrorCodeNotConfigured)
	case errors.Is(err, newsletter.ErrAlreadySubscribed):
		return domain.ErrConflict("Cet email a déjà bénéficié de l'offre").WithCode(domain.ErrorCodeEmailExists)
	case errors.Is(err, newsletter.ErrContactNotFound):
		return domain.ErrServer("Impossible de récupérer le contact existant").WithCode(domain.ErrorCodeContactNotFound)

	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrServer("request timed out").WithStatusCode(http.StatusGatewayTimeout)
	}

	return domain.ErrServer("internal server error")
}

// WriteError records err on the request log and writes the JSON envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := ToAPIError(err)
	server.AddError(r.Context(), err)
	if apiErr.Code != "" {
		server.AddLogField(r.Context(), "error_code", string(apiErr.Code))
	}
	writeJSON(w, apiErr.HTTPStatusCode(), ErrorResponse{Error: apiErr})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, payload)
}

func jsonEncode(w io.Writer, payload any) error {
	return json.NewEncoder(w).Encode(payload)
}

// maxBodyBytes leaves room for signature data URLs.
const maxBodyBytes = 4 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
