package api

import (
	"bytes"
	"countrystore/internal/engine"
	"countrystore/internal/models"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
)

// Handler serves one Store. The store itself is single-threaded, so every
// request takes the handler lock: reads share it, mutations hold it alone.
type Handler struct {
	mu    sync.RWMutex
	store *engine.Store
}

// NewHandler accepts a nil store; requests then get 503 until SetStore.
func NewHandler(store *engine.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) SetStore(store *engine.Store) {
	h.mu.Lock()
	h.store = store
	h.mu.Unlock()
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.Use(h.requireStore)

	api.POST("/load", h.Load)
	api.GET("/stats", h.GetStats)
	api.GET("/series", h.GetSeries)

	api.GET("/countries", h.Describe)
	api.DELETE("/countries", h.RemoveByName)
	api.GET("/countries/:code", h.Lookup)
	api.DELETE("/countries/:code", h.Remove)
	api.POST("/countries/:code/insert", h.Insert)

	api.POST("/build/:series", h.Build)
	api.GET("/build", h.GetBuild)
	api.GET("/build/range", h.GetRange)
	api.GET("/build/find", h.Find)
	api.GET("/build/limits", h.Limits)
	api.GET("/build/arrow", h.GetArrow)
}

func (h *Handler) requireStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h.mu.RLock()
		ready := h.store != nil
		h.mu.RUnlock()
		if !ready {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "data is still loading"})
		}
		return next(c)
	}
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func checksumString(sum uint64) string {
	if sum == 0 {
		return ""
	}
	return strconv.FormatUint(sum, 16)
}

// Load replaces everything with the CSV file at the given server-side path.
// Running out of slots still answers 200, with the summary flagged incomplete.
func (h *Handler) Load(c echo.Context) error {
	var req models.LoadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	ds, err := engine.ReadDataset(req.Path)
	if err != nil {
		return toHTTPError(err)
	}

	h.mu.Lock()
	res, err := h.store.LoadDataset(ds)
	h.mu.Unlock()
	if err != nil && !errors.Is(err, engine.ErrCapacityExhausted) {
		return toHTTPError(err)
	}

	sum := models.LoadSummary{
		Path:      req.Path,
		Rows:      res.Rows,
		Countries: res.Countries,
		Skipped:   res.Skipped,
		Checksum:  checksumString(res.Checksum),
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if err != nil {
		sum.Incomplete = true
		sum.Error = err.Error()
	}
	return c.JSON(http.StatusOK, sum)
}

// Insert adds one country gathered from every row for :code in the file.
func (h *Handler) Insert(c echo.Context) error {
	code := c.Param("code")
	var req models.LoadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	ds, err := engine.ReadDataset(req.Path)
	if err != nil {
		return toHTTPError(err)
	}

	h.mu.Lock()
	err = h.store.Insert(code, ds.Rows)
	var slot, probes int
	if err == nil {
		slot, probes = h.store.Search(code)
	}
	h.mu.Unlock()
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, models.LookupResult{Code: code, Slot: slot, Probes: probes})
}

func (h *Handler) Lookup(c echo.Context) error {
	code := c.Param("code")

	h.mu.RLock()
	slot, probes := h.store.Search(code)
	h.mu.RUnlock()

	res := models.LookupResult{Code: code, Slot: slot, Probes: probes}
	if slot == -1 {
		return c.JSON(http.StatusNotFound, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Remove(c echo.Context) error {
	h.mu.Lock()
	ok := h.store.Remove(c.Param("code"))
	h.mu.Unlock()

	if !ok {
		return toHTTPError(engine.ErrNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Describe(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	h.mu.RLock()
	info, err := h.store.Describe(name)
	h.mu.RUnlock()
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, models.CountryInfo{Name: info.Name, Code: info.Code, Series: info.Series})
}

// RemoveByName drops a country from the table and from the current build.
func (h *Handler) RemoveByName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	h.mu.Lock()
	ok := h.store.RemoveByName(name)
	h.mu.Unlock()

	if !ok {
		return toHTTPError(engine.ErrNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Build(c echo.Context) error {
	series := c.Param("series")

	h.mu.Lock()
	_, err := h.store.Build(series)
	entries := h.store.Projection().Entries()
	h.mu.Unlock()
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, models.BuildResult{Series: series, Entries: toBuildEntries(entries)})
}

// GetBuild pages through the current build.
func (h *Handler) GetBuild(c echo.Context) error {
	h.mu.RLock()
	series := h.store.Projection().SeriesCode()
	entries := h.store.Projection().Entries()
	h.mu.RUnlock()

	total := len(entries)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		return c.JSON(http.StatusOK, models.BuildResult{Series: series, Entries: []models.BuildEntry{}})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"series": series,
		"data":   toBuildEntries(entries[offset:end]),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetRange(c echo.Context) error {
	h.mu.RLock()
	lo, hi, err := h.store.Range()
	series := h.store.Projection().SeriesCode()
	h.mu.RUnlock()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.RangeResult{Series: series, Min: lo, Max: hi})
}

// Find lists countries whose mean is less than, greater than or equal to value.
func (h *Handler) Find(c echo.Context) error {
	value, err := strconv.ParseFloat(c.QueryParam("value"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "value must be a number")
	}
	rel, err := engine.ParseRelation(c.QueryParam("op"))
	if err != nil {
		return toHTTPError(err)
	}

	h.mu.RLock()
	names, err := h.store.Threshold(value, rel)
	series := h.store.Projection().SeriesCode()
	h.mu.RUnlock()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.NamesResult{Series: series, Countries: names})
}

func (h *Handler) Limits(c echo.Context) error {
	which, err := engine.ParseExtreme(c.QueryParam("which"))
	if err != nil {
		return toHTTPError(err)
	}

	h.mu.RLock()
	names, err := h.store.Extremes(which)
	series := h.store.Projection().SeriesCode()
	h.mu.RUnlock()
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.NamesResult{Series: series, Countries: names})
}

// GetArrow streams the current build as an Arrow IPC stream.
func (h *Handler) GetArrow(c echo.Context) error {
	var buf bytes.Buffer
	h.mu.RLock()
	active := h.store.Projection().Active()
	var err error
	if active {
		err = engine.WriteIPC(&buf, h.store.Projection(), nil)
	}
	h.mu.RUnlock()

	if !active {
		return toHTTPError(engine.ErrEmptyProjection)
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/vnd.apache.arrow.stream", buf.Bytes())
}

// GetSeries lists series codes by how many countries carry them.
func (h *Handler) GetSeries(c echo.Context) error {
	h.mu.RLock()
	catalog := h.store.Catalog()
	h.mu.RUnlock()

	limit, _ := getPaginationParams(c, len(catalog))
	if limit < len(catalog) {
		catalog = catalog[:limit]
	}

	items := make([]models.SeriesItem, len(catalog))
	for i, s := range catalog {
		items[i] = models.SeriesItem{
			Code:         s.Code,
			Name:         s.Name,
			Countries:    s.Countries,
			Observations: s.Observations,
			Valid:        s.Valid,
		}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetStats(c echo.Context) error {
	h.mu.RLock()
	st := h.store.Stats()
	h.mu.RUnlock()

	return c.JSON(http.StatusOK, models.StatsResult{
		Capacity:    st.Table.Capacity,
		Countries:   st.Countries,
		Tombstones:  st.Table.Tombstones,
		Empty:       st.Table.Empty,
		BuiltSeries: st.BuiltSeries,
		Entries:     st.Entries,
		Source:      st.Source,
		Checksum:    checksumString(st.Checksum),
	})
}

func toBuildEntries(entries []engine.Entry) []models.BuildEntry {
	out := make([]models.BuildEntry, len(entries))
	for i, e := range entries {
		out[i] = models.BuildEntry{Country: e.Country, Mean: e.Mean}
	}
	return out
}
