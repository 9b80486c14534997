package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
	"taskboard-api/storage"
)

const defaultRangeDays = 7

type createTaskRequest struct {
	Title           string                 `json:"title"`
	Priority        string                 `json:"priority"`
	DueDate         *time.Time             `json:"dueDate"`
	CheckLists      []domain.CheckListItem `json:"checkLists"`
	CreatedAt       *time.Time             `json:"createdAt"`
	Status          string                 `json:"status"`
	AssignedToEmail *string                `json:"assigned_to_email"`
}

// taskData wraps a single task the way the client expects it.
type taskData struct {
	Task any `json:"task"`
}

func createTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := identityFrom(c)

		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}
		if req.Title == "" || req.Priority == "" || req.CheckLists == nil {
			return fail(c, http.StatusBadRequest, "please fill all the required fields")
		}
		if len(req.CheckLists) == 0 {
			return fail(c, http.StatusBadRequest, "please fill at least one check list")
		}

		status := req.Status
		if status == "" {
			status = domain.StatusTodo
		}
		createdAt := time.Now().UTC()
		if req.CreatedAt != nil {
			createdAt = *req.CreatedAt
		}
		assigned := ""
		if req.AssignedToEmail != nil {
			assigned = *req.AssignedToEmail
		}

		task := domain.Task{
			Title:           req.Title,
			Priority:        req.Priority,
			Status:          status,
			DueDate:         req.DueDate,
			CheckLists:      req.CheckLists,
			AssignedToEmail: &assigned,
			CreatedAt:       createdAt,
			CreatedBy:       ident.ID,
		}
		created, err := store.InsertTask(c.Request().Context(), task)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidField) {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "internal server error, please try again later")
		}

		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Message: "task created successfully",
			Data:    taskData{Task: created},
		})
	}
}

// listTasksResponse mirrors the list endpoint's body: a status string, a
// result count and the tasks themselves.
type listTasksResponse struct {
	Status  string `json:"status"`
	Results int    `json:"results"`
	Data    struct {
		Tasks []domain.ListedTask `json:"tasks"`
	} `json:"data"`
}

func getTasks(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		ident := identityFrom(c)

		metrics := newListRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		rangeDays := defaultRangeDays
		if raw := c.QueryParam("range"); raw != "" {
			n, parseErr := strconv.Atoi(raw)
			if parseErr != nil || n <= 0 {
				metrics.SetErrorStage("invalid_range")
				err = fail(c, http.StatusBadRequest, "invalid range")
				return err
			}
			rangeDays = n
		}
		metrics.SetRangeDays(rangeDays)

		from, to := domain.ListWindow(time.Now(), rangeDays)

		fetchStart := time.Now()
		tasks, fetchErr := store.TasksInWindow(ctx, ident.ID, ident.Email, from, to)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = fail(c, http.StatusInternalServerError, "an error occurred while retrieving tasks")
			return err
		}
		metrics.SetTasksReturned(len(tasks))
		if tasks == nil {
			tasks = []domain.ListedTask{}
		}

		resp := listTasksResponse{Status: "success", Results: len(tasks)}
		resp.Data.Tasks = tasks

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getSingleTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := store.TaskByID(c.Request().Context(), c.Param("taskId"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, http.StatusNotFound, "task not found")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}
		return c.JSON(http.StatusOK, envelope{Success: true, Data: taskData{Task: task}})
	}
}

type updateTaskRequest struct {
	Title           *string                 `json:"title"`
	Priority        *string                 `json:"priority"`
	DueDate         *time.Time              `json:"dueDate"`
	CheckLists      *[]domain.CheckListItem `json:"checkLists"`
	Status          *string                 `json:"status"`
	AssignedToEmail *string                 `json:"assigned_to_email"`
}

func updateSingleTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := identityFrom(c)

		var req updateTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}

		patch := domain.TaskPatch{
			Title:           req.Title,
			Priority:        req.Priority,
			Status:          req.Status,
			DueDate:         req.DueDate,
			CheckLists:      req.CheckLists,
			AssignedToEmail: req.AssignedToEmail,
		}
		task, err := store.UpdateTask(c.Request().Context(), c.Param("taskId"), ident.ID, ident.Email, patch)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return fail(c, http.StatusNotFound, "task not found")
			case errors.Is(err, storage.ErrInvalidField):
				return fail(c, http.StatusBadRequest, err.Error())
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "internal server error")
		}

		return c.JSON(http.StatusOK, struct {
			Status string   `json:"status"`
			Data   taskData `json:"data"`
		}{Status: "success", Data: taskData{Task: task}})
	}
}

func deleteSingleTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := identityFrom(c)

		taskID := c.Param("taskId")
		if taskID == "" {
			return fail(c, http.StatusPaymentRequired, "please provide a valid task id")
		}

		err := store.DeleteTask(c.Request().Context(), taskID, ident.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, http.StatusNotFound, "task not found")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "internal server error")
		}

		return c.JSON(http.StatusOK, envelope{Success: true, Message: "task deleted successfully"})
	}
}
