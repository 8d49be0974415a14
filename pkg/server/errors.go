package server

import (
	"errors"
	"net/http"

	"github.com/matst80/slask-dashboard/pkg/catalog"
	"github.com/matst80/slask-dashboard/pkg/common"
	"github.com/matst80/slask-dashboard/pkg/criteria"
	"github.com/matst80/slask-dashboard/pkg/selection"
)

var (
	ErrCatalogUnavailable = errors.New("catalog not loaded")
	ErrSaveFailed         = errors.New("could not save favorite, try again")
)

// withStatus attaches the response status matching err.
func withStatus(err error) error {
	if err == nil {
		return nil
	}
	var reqErr *catalog.RequestError
	switch {
	case errors.Is(err, criteria.ErrUnknownKey), errors.Is(err, criteria.ErrInvalidValue):
		return common.NewHttpError(http.StatusBadRequest, err)
	case errors.Is(err, selection.ErrCompareFull):
		return common.NewHttpError(http.StatusConflict, err)
	case errors.As(err, &reqErr), errors.Is(err, ErrCatalogUnavailable):
		return common.NewHttpError(http.StatusBadGateway, err)
	case errors.Is(err, ErrSaveFailed):
		return common.NewHttpError(http.StatusServiceUnavailable, err)
	}
	return err
}

func badRequest(err error) error {
	return common.NewHttpError(http.StatusBadRequest, err)
}
