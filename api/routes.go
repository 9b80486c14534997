package api

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const requestBodyMaxSize = 64 * 1024 // 64 KiB

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, auth Authenticator, logger *log.Logger) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello world")
	})
	e.GET("/healthz", healthz(store))

	v1 := e.Group("/api/v1")
	v1.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "This is v1 of server")
	})

	users := v1.Group("/user")
	users.POST("/register", registerUser(store, auth))
	users.POST("/login", loginUser(store, auth))
	users.POST("/logout", logoutUser())
	users.PUT("/update", updateUser(store), RequireAuth(auth))
	users.GET("/analytics", getAnalytics(store), RequireAuth(auth))
	users.GET("/userDetail", getUserDetail(store), RequireAuth(auth))
	users.POST("/addToBoard", addToBoard(store), RequireAuth(auth))

	tasks := v1.Group("/task")
	tasks.POST("/createTask", createTask(store), RequireAuth(auth))
	tasks.GET("/", getTasks(store, logger), RequireAuth(auth))
	tasks.GET("/:taskId", getSingleTask(store))
	tasks.PATCH("/:taskId", updateSingleTask(store), RequireAuth(auth))
	tasks.DELETE("/:taskId", deleteSingleTask(store), RequireAuth(auth))
}

func healthz(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

// decodeBody reads a size-capped JSON request body into v.
func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(v)
}
