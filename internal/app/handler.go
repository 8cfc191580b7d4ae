package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stolasapp/ende/internal/convert"
	"github.com/stolasapp/ende/internal/detect"
	"github.com/stolasapp/ende/internal/pagination"
	"github.com/stolasapp/ende/internal/storage"
)

type handler struct {
	flows  storage.Flows
	cache  *responseCache
	logger *slog.Logger
}

func (h handler) register(g *echo.Group) {
	g.GET("/converters/:group", h.listConverters)
	g.POST("/forge", h.forge)
	g.POST("/detect", h.detect)
	g.GET("/labels", h.labels)

	flows := g.Group("/flows")
	flows.GET("", h.listFlows)
	flows.GET("/:name", h.getFlow)
	flows.PUT("/:name", h.putFlow)
	flows.DELETE("/:name", h.deleteFlow)
	flows.POST("/:name/forge", h.forgeFlow)
}

type converterView struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Group convert.Group `json:"group"`
	Ref   string        `json:"ref"`
}

func (h handler) listConverters(c echo.Context) error {
	group, err := convert.ParseGroup(c.Param("group"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	converters := convert.List(group)
	views := make([]converterView, 0, len(converters))
	for _, conv := range converters {
		views = append(views, converterView{
			ID:    conv.ID,
			Name:  conv.Name,
			Group: conv.Group,
			Ref:   conv.Ref(),
		})
	}
	return c.JSON(http.StatusOK, views)
}

type forgeRequest struct {
	Input string   `json:"input"`
	Steps []string `json:"steps"`
}

type forgeResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

func (h handler) forge(c echo.Context) error {
	var req forgeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	flow, err := convert.ParseFlow(req.Steps...)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.runFlow(c, req.Input, flow)
}

// runFlow writes the flow's output for input. Successful results are cached;
// conversion failures yield the sentinel output with a 422 status.
func (h handler) runFlow(c echo.Context, input string, flow convert.Flow) error {
	key := cacheKey("forge", append([]string{input}, flow.Refs()...)...)
	if data, ok := h.cache.get(key); ok {
		return c.JSONBlob(http.StatusOK, data)
	}

	output, err := convert.Run(input, flow)
	if err != nil {
		h.logger.DebugContext(c.Request().Context(), "conversion failed", slog.Any("error", err))
		return c.JSON(http.StatusUnprocessableEntity, forgeResponse{
			Output: convert.Sentinel,
			Error:  err.Error(),
		})
	}
	return h.cachedJSON(c, key, forgeResponse{Output: output})
}

type detectRequest struct {
	Content string `json:"content"`
}

type detectResponse struct {
	Label detect.Label `json:"label"`
}

func (h handler) detect(c echo.Context) error {
	var req detectRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	key := cacheKey("detect", req.Content)
	if data, ok := h.cache.get(key); ok {
		return c.JSONBlob(http.StatusOK, data)
	}
	return h.cachedJSON(c, key, detectResponse{Label: detect.Detect(req.Content)})
}

func (h handler) cachedJSON(c echo.Context, key string, resp any) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	h.cache.set(key, data)
	return c.JSONBlob(http.StatusOK, data)
}

func (h handler) labels(c echo.Context) error {
	return c.JSON(http.StatusOK, detect.Labels())
}

type listFlowsResponse struct {
	Results       []storage.SavedFlow `json:"results"`
	NextPageToken string              `json:"next_page_token,omitempty"`
}

func (h handler) listFlows(c echo.Context) error {
	size := 0
	if raw := c.QueryParam("page_size"); raw != "" {
		var err error
		if size, err = strconv.Atoi(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page_size")
		}
	}
	size = pagination.PageSize(size)

	var cursor pagination.FlowsCursor
	if tkn := c.QueryParam("page_token"); tkn != "" {
		if err := pagination.FromToken(tkn, &cursor); err != nil {
			return toHTTPError(err)
		}
	}

	// one extra record reveals whether another page exists
	flows, err := h.flows.ListFlows(c.Request().Context(), cursor.AfterName, int32(size+1)) //nolint:gosec // bounded by MaxPageSize
	if err != nil {
		return toHTTPError(err)
	}
	resp := listFlowsResponse{Results: flows}
	if len(flows) > size {
		resp.Results = flows[:size]
		resp.NextPageToken, err = pagination.ToToken(&pagination.FlowsCursor{
			AfterName: resp.Results[size-1].Name,
		})
		if err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h handler) getFlow(c echo.Context) error {
	flow, err := h.flows.GetFlow(c.Request().Context(), c.Param("name"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, flow)
}

type putFlowRequest struct {
	Steps []string `json:"steps"`
}

func (h handler) putFlow(c echo.Context) error {
	var req putFlowRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	flow, err := h.flows.UpsertFlow(c.Request().Context(), storage.SavedFlow{
		Name:  c.Param("name"),
		Steps: req.Steps,
	})
	if err != nil {
		return toHTTPError(err)
	}
	h.logger.InfoContext(c.Request().Context(), "flow saved",
		slog.String("name", flow.Name),
		slog.Any("steps", flow.Steps))
	return c.JSON(http.StatusOK, flow)
}

func (h handler) deleteFlow(c echo.Context) error {
	name := c.Param("name")
	if err := h.flows.DeleteFlow(c.Request().Context(), name); err != nil {
		return toHTTPError(err)
	}
	h.logger.InfoContext(c.Request().Context(), "flow deleted", slog.String("name", name))
	return c.NoContent(http.StatusNoContent)
}

type forgeFlowRequest struct {
	Input string `json:"input"`
}

func (h handler) forgeFlow(c echo.Context) error {
	var req forgeFlowRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	saved, err := h.flows.GetFlow(c.Request().Context(), c.Param("name"))
	if err != nil {
		return toHTTPError(err)
	}
	flow, err := convert.ParseFlow(saved.Steps...)
	if err != nil {
		// the catalog no longer has a stored step
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return h.runFlow(c, req.Input, flow)
}

// toHTTPError maps storage and pagination errors to HTTP errors. Other errors
// are returned as-is for default handling.
func toHTTPError(err error) error {
	var tokenErr pagination.TokenError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, storage.ErrInvalidFlow),
		errors.As(err, &tokenErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
