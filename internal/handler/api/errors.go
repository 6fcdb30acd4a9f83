package api

import (
	"errors"

	"BTCPulse/internal/services/dataaccess"
	xhttp "BTCPulse/pkg/http"
)

// appError maps data-access failures onto HTTP errors. Validation errors pass through untouched.
func appError(err error) error {
	var (
		remote    *dataaccess.RemoteError
		transport *dataaccess.TransportError
		verrs     *xhttp.ValidationErrors
		appErr    *xhttp.AppError
	)
	switch {
	case errors.As(err, &verrs), errors.As(err, &appErr):
		return err
	case errors.Is(err, dataaccess.ErrSymbolRequired):
		return xhttp.BadRequestError("symbol is required").WithError(err)
	case errors.As(err, &remote):
		return xhttp.BadGatewayError("upstream request failed").
			WithParam("upstream_status", remote.Status).
			WithParam("endpoint", remote.Endpoint).
			WithError(err)
	case errors.As(err, &transport):
		return xhttp.UnavailableError("upstream unreachable").
			WithParam("endpoint", transport.Endpoint).
			WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
