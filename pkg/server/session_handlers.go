package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/matst80/slask-dashboard/pkg/common/jsoncompat"
	"github.com/matst80/slask-dashboard/pkg/dashboard"
	"github.com/matst80/slask-dashboard/pkg/types"
)

type SearchRequest struct {
	Value string `json:"value"`
}

type PriceRequest struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Typed bool     `json:"typed"`
}

type DatesRequest struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type ToggleRequest struct {
	Key   types.MultiKey `json:"key"`
	Value string         `json:"value"`
}

// session returns the caller's dashboard. A new one starts from the
// request query, like a shared link would.
func (a *App) session(r *http.Request, sessionId string) *dashboard.Dashboard {
	return a.sessions.Get(sessionId, r.URL.Query())
}

func (a *App) SessionView(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(a.session(r, sessionId).View())
}

func (a *App) SessionSearch(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if req.Value == "" {
		d.ClearSearch()
	} else {
		d.TypeSearch(req.Value)
	}
	return enc.Encode(d.View())
}

func (a *App) SessionPrice(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var req PriceRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if req.Min != nil {
		if req.Typed {
			d.EnterPriceMin(*req.Min)
		} else {
			d.DragPriceMin(*req.Min)
		}
	}
	if req.Max != nil {
		if req.Typed {
			d.EnterPriceMax(*req.Max)
		} else {
			d.DragPriceMax(*req.Max)
		}
	}
	return enc.Encode(d.View())
}

func (a *App) SessionDates(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var req DatesRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if req.Start != nil {
		d.SetStartDate(*req.Start)
	}
	if req.End != nil {
		d.SetEndDate(*req.End)
	}
	return enc.Encode(d.View())
}

// SessionFilters applies every key of the body in one commit. An invalid
// key fails the request and changes nothing.
func (a *App) SessionFilters(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var req map[string]any
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if err := d.SetFilters(req); err != nil {
		return withStatus(err)
	}
	return enc.Encode(d.View())
}

func (a *App) SessionClear(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	d := a.session(r, sessionId)
	d.ClearFilters()
	return enc.Encode(d.View())
}

func (a *App) SessionToggle(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var req ToggleRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if err := d.ToggleMulti(req.Key, req.Value); err != nil {
		return withStatus(err)
	}
	return enc.Encode(d.View())
}

func (a *App) SessionRemoveChip(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var chip types.ActiveFilterChip
	if err := decodeBody(r, &chip); err != nil {
		return err
	}
	d := a.session(r, sessionId)
	if err := d.RemoveChip(chip); err != nil {
		return withStatus(err)
	}
	return enc.Encode(d.View())
}

func (a *App) SessionPage(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		return badRequest(fmt.Errorf("invalid page %q", r.PathValue("page")))
	}
	d := a.session(r, sessionId)
	d.SetPage(page)
	return enc.Encode(d.View())
}

func (a *App) SessionRetry(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	d := a.session(r, sessionId)
	if err := d.Retry(r.Context()); err != nil {
		return withStatus(err)
	}
	return enc.Encode(d.View())
}

func (a *App) SessionDismissToast(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	d := a.session(r, sessionId)
	d.Toasts().Remove(r.PathValue("id"))
	return enc.Encode(d.View())
}
