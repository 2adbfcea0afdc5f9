package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/netx"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// mapError converts transport and HTTP failures into the package sentinels.
// The server's message is kept in the wrapped error text.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, se.Message)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrForbidden, se.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", common.ErrNotFound, se.Message)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", common.ErrInvalidArgument, se.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", common.ErrRateLimited, se.Message)
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %s", ErrUnavailable, se.Message)
		}
		return err
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
