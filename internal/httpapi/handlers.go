package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/runoshun/taskman/internal/domain"
	"github.com/runoshun/taskman/internal/engine"
)

// listView is the JSON shape of the filtered list.
type listView struct {
	Tasks    []domain.Task `json:"tasks"`
	Query    queryView     `json:"query"`
	Error    string        `json:"error,omitempty"`
	Total    int           `json:"total"`
	Filtered bool          `json:"filtered"`
}

type queryView struct {
	Status   *domain.Status   `json:"status,omitempty"`
	Priority *domain.Priority `json:"priority,omitempty"`
	Search   string           `json:"search,omitempty"`
	Sort     domain.SortBy    `json:"sort"`
}

func newListView(st engine.ListState) listView {
	tasks := st.Filtered
	if tasks == nil {
		tasks = []domain.Task{}
	}
	v := listView{
		Tasks: tasks,
		Query: queryView{
			Search:   st.Query.Search,
			Status:   st.Query.Status,
			Priority: st.Query.Priority,
			Sort:     st.Query.SortBy,
		},
		Total:    len(st.Tasks),
		Filtered: st.Query.IsFiltered(),
	}
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	return v
}

// taskInput is the request body of create and update.
// Absent fields keep their current (or default) values.
type taskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
	ClearDue    bool    `json:"clearDue"`
}

// applyTo copies the fields present in the request onto edit.
func (in taskInput) applyTo(edit *domain.TaskEdit) error {
	if in.Title != nil {
		edit.Title = *in.Title
	}
	if in.Description != nil {
		edit.Description = *in.Description
	}
	if in.Priority != nil {
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return err
		}
		edit.Priority = p
	}
	if in.Status != nil {
		s, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return err
		}
		edit.Status = s
	}
	if in.DueDate != nil && *in.DueDate != "" {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return err
		}
		edit.DueDate = &due
	}
	if in.ClearDue {
		edit.DueDate = nil
	}
	return nil
}

type errorResponse struct {
	Error      string `json:"error"`
	TitleError bool   `json:"titleError,omitempty"`
}

// writeError maps domain errors to status codes.
func writeError(c echo.Context, err error) error {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyTitle):
		status = http.StatusBadRequest
		resp.TitleError = true
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidSort),
		errors.Is(err, domain.ErrInvalidDueDate):
		status = http.StatusBadRequest
	}
	return c.JSON(status, resp)
}

// listEngine builds a list engine from the query string.
func (s *Server) listEngine(c echo.Context) (*engine.ListEngine, error) {
	eng := s.engines.ListEngine()
	if v := c.QueryParam("search"); v != "" {
		eng.SetSearchQuery(v)
	}
	if v := c.QueryParam("status"); v != "" {
		st, err := domain.ParseStatus(v)
		if err != nil {
			return nil, err
		}
		eng.SetStatusFilter(&st)
	}
	if v := c.QueryParam("priority"); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return nil, err
		}
		eng.SetPriorityFilter(&p)
	}
	if v := c.QueryParam("sort"); v != "" {
		sortBy, err := domain.ParseSortBy(v)
		if err != nil {
			return nil, err
		}
		eng.SetSortBy(sortBy)
	}
	return eng, nil
}

func (s *Server) listTasks(c echo.Context) error {
	eng, err := s.listEngine(c)
	if err != nil {
		return writeError(c, err)
	}
	st, err := eng.Snapshot(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newListView(st))
}

// streamTasks sends the list view as server-sent events, one per change.
func (s *Server) streamTasks(c echo.Context) error {
	eng, err := s.listEngine(c)
	if err != nil {
		return writeError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}
	res.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := c.Request().Context()
	for st := range eng.ObserveTasks(ctx) {
		if st.Loading {
			continue
		}
		data, err := json.Marshal(newListView(st))
		if err != nil {
			s.logger.Error("encode list view", "error", err)
			return err
		}
		if _, err := res.Write([]byte("data: ")); err != nil {
			return nil
		}
		if _, err := res.Write(data); err != nil {
			return nil
		}
		if _, err := res.Write([]byte("\n\n")); err != nil {
			return nil
		}
		flusher.Flush()
	}
	return nil
}

func (s *Server) createTask(c echo.Context) error {
	var in taskInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	eng := s.engines.CreateEngine()
	draft := eng.State().Draft
	if err := in.applyTo(&draft); err != nil {
		return writeError(c, err)
	}
	eng.SetDraft(draft)

	task, err := eng.Submit(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// loadDetail loads the task named by the :id path parameter.
func (s *Server) loadDetail(c echo.Context) (*engine.DetailEngine, error) {
	eng := s.engines.DetailEngine()
	if err := eng.Load(c.Request().Context(), c.Param("id")); err != nil {
		return nil, err
	}
	if eng.State().Phase != engine.PhaseLoaded {
		return nil, domain.ErrTaskNotFound
	}
	return eng, nil
}

func (s *Server) getTask(c echo.Context) error {
	eng, err := s.loadDetail(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, eng.State().Task)
}

func (s *Server) updateTask(c echo.Context) error {
	var in taskInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	eng, err := s.loadDetail(c)
	if err != nil {
		return writeError(c, err)
	}
	edit := eng.State().Task.Edit()
	if err := in.applyTo(&edit); err != nil {
		return writeError(c, err)
	}
	if err := eng.Update(c.Request().Context(), edit); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, eng.State().Task)
}

func (s *Server) deleteTask(c echo.Context) error {
	eng, err := s.loadDetail(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := eng.Delete(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) toggleDone(c echo.Context) error {
	task, err := s.engines.ListEngine().ToggleCompletion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) toggleProgress(c echo.Context) error {
	task, err := s.engines.ListEngine().ToggleInProgress(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}
