package rest

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sarathaj/User-Management/internal/apperrors"
	"github.com/sarathaj/User-Management/internal/application/command"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/query"
)

const attachmentField = "attachment"

type taskPage struct {
	Count    int64                `json:"count"`
	Next     *string              `json:"next"`
	Previous *string              `json:"previous"`
	Results  []*common.TaskResult `json:"results"`
}

func (h *Handler) ListTasks(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	page, ok, err := intParam(c, "page")
	if err != nil || (ok && page < 1) {
		return apperrors.NotFound()
	}
	pageSize, _, err := intParam(c, "page_size")
	if err != nil {
		pageSize = 0
	}

	result, err := h.tasks.List(c.Request().Context(), &query.ListTasksQuery{
		Owner:    identity,
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	body := taskPage{Count: result.Count, Results: result.Results}
	if body.Results == nil {
		body.Results = []*common.TaskResult{}
	}
	if result.HasNext() {
		link := pageLink(c, result.Page+1)
		body.Next = &link
	}
	if result.HasPrevious() {
		link := pageLink(c, result.Page-1)
		body.Previous = &link
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) CreateTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	input, err := bindTask(c)
	if err != nil {
		return err
	}
	defer input.Close()

	cmd := &command.CreateTaskCommand{
		Owner:      identity,
		Attachment: input.Attachment,
	}
	if input.Title != nil {
		cmd.Title = *input.Title
	}
	if input.Description != nil {
		cmd.Description = *input.Description
	}

	task, err := h.tasks.Create(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ReplaceTask(c echo.Context) error {
	return h.updateTask(c, false)
}

func (h *Handler) PatchTask(c echo.Context) error {
	return h.updateTask(c, true)
}

func (h *Handler) updateTask(c echo.Context, partial bool) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	input, err := bindTask(c)
	if err != nil {
		return err
	}
	defer input.Close()

	task, err := h.tasks.Update(c.Request().Context(), &command.UpdateTaskCommand{
		Owner:       identity,
		TaskID:      id,
		Title:       input.Title,
		Description: input.Description,
		Attachment:  input.Attachment,
		Partial:     partial,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DuplicateTask(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Duplicate(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) RecentTasks(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.Recent(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []*common.TaskResult{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) DeleteAllTasks(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	result, err := h.tasks.DeleteAll(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// taskInput is a task body decoded from JSON, a urlencoded form or a
// multipart form. Close releases the uploaded file, if any.
type taskInput struct {
	taskRequest
	Attachment *common.Upload
	file       multipart.File
}

func (in *taskInput) Close() {
	if in.file != nil {
		in.file.Close()
	}
}

func bindTask(c echo.Context) (*taskInput, error) {
	input := &taskInput{}
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.BadRequest("Malformed multipart body")
		}
		input.Title = formValue(form.Value, "title")
		input.Description = formValue(form.Value, "description")
		if files := form.File[attachmentField]; len(files) > 0 {
			fh := files[0]
			f, err := fh.Open()
			if err != nil {
				return nil, apperrors.Validation(attachmentField, "The submitted file is empty.")
			}
			input.file = f
			input.Attachment = &common.Upload{Filename: fh.Filename, Content: f}
		}
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
		values, err := c.FormParams()
		if err != nil {
			return nil, apperrors.BadRequest("Malformed form body")
		}
		input.Title = formValue(values, "title")
		input.Description = formValue(values, "description")
	default:
		if err := c.Bind(&input.taskRequest); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(&input.taskRequest); err != nil {
		input.Close()
		return nil, err
	}
	return input, nil
}

func formValue(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// taskID parses the :id path parameter. A malformed id cannot name any
// task, so it is reported the same way as a missing one.
func taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound()
	}
	return id, nil
}

// intParam parses an optional integer query parameter. ok reports whether
// the parameter was sent at all.
func intParam(c echo.Context, name string) (n int, ok bool, err error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	return n, true, err
}

// pageLink rebuilds the request URL pointing at page. Page one is
// rendered without the page parameter.
func pageLink(c echo.Context, page int) string {
	req := c.Request()
	u := url.URL{
		Scheme: c.Scheme(),
		Host:   req.Host,
		Path:   req.URL.Path,
	}
	q := req.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

