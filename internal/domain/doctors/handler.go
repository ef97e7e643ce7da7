package doctors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medportal/medportal/pkg/objectid"
	"github.com/medportal/medportal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.POST("/doctors", h.CreateDoctor)
	api.PUT("/doctors/:id", h.UpdateDoctor)
	api.DELETE("/doctors/:id", h.DeleteDoctor)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.svc.Create(c.Request().Context(), &d)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id := c.Param("id")
	if !objectid.IsValid(id) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if d == nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	q := &Query{
		Params: pagination.FromContext(c),
		Name:   c.QueryParam("name"),
	}
	if v := c.QueryParam("specialism"); v != "" {
		q.Specialisms = splitCanonical(v, NormalizeSpecialism)
	}
	if v := c.QueryParam("status"); v != "" {
		q.Statuses = splitCanonical(v, NormalizeStatus)
	}
	if q.PageSize > pagination.MaxPageSize {
		return echo.NewHTTPError(http.StatusBadRequest, "pageSize too large")
	}
	page, err := h.svc.Query(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id := c.Param("id")
	if !objectid.IsValid(id) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in Update
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ok, err := h.svc.Update(c.Request().Context(), id, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id := c.Param("id")
	if !objectid.IsValid(id) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ok, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// splitCanonical parses a comma-separated query value, keeping values the
// normalizer recognizes in canonical form.
func splitCanonical(raw string, normalize func(string) (string, bool)) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if canon, ok := normalize(strings.TrimSpace(part)); ok {
			out = append(out, canon)
		}
	}
	return out
}
