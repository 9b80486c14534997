package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"taskboard-api/domain"
	"taskboard-api/storage"
)

type registerRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func registerUser(store Storage, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req registerRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}
		if req.Email == "" || req.Name == "" || req.Password == "" || req.ConfirmPassword == "" {
			return fail(c, http.StatusBadRequest, "please provide all required fields: email, name, password and confirm password")
		}
		if req.Password != req.ConfirmPassword {
			return fail(c, http.StatusBadRequest, "passwords do not match")
		}

		if _, err := store.UserByEmail(ctx, req.Email); err == nil {
			return fail(c, http.StatusBadRequest, "user already exists")
		} else if !errors.Is(err, storage.ErrNotFound) {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		user, err := store.CreateUser(ctx, req.Name, req.Email, string(hash))
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				return fail(c, http.StatusBadRequest, "user already exists")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		token, err := auth.Issue(user.ID, user.Email)
		if err != nil {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}
		setSessionCookie(c, token)

		return c.JSON(http.StatusCreated, envelope{
			Success: true,
			Message: "user registered successfully",
			Data:    userData{ID: user.ID, Name: user.Name, Email: user.Email},
			Token:   token,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginUser(store Storage, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req loginRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}
		if req.Email == "" || req.Password == "" {
			return fail(c, http.StatusBadRequest, "please provide email and password")
		}

		user, err := store.UserByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, http.StatusBadRequest, "user does not exist")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return fail(c, http.StatusBadRequest, "invalid credentials")
		}

		token, err := auth.Issue(user.ID, user.Email)
		if err != nil {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}
		setSessionCookie(c, token)

		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Message: "user logged in successfully",
			Data:    userData{ID: user.ID, Name: user.Name, Email: user.Email},
			Token:   token,
		})
	}
}

func logoutUser() echo.HandlerFunc {
	return func(c echo.Context) error {
		clearSessionCookie(c)
		return c.JSON(http.StatusOK, envelope{Success: true, Message: "user logged out successfully"})
	}
}

func getUserDetail(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := identityFrom(c)

		user, err := store.UserByID(c.Request().Context(), ident.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, http.StatusNotFound, "user does not exist")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Data:    userData{ID: user.ID, Name: user.Name, Email: user.Email, Board: user.Board},
		})
	}
}

type updateUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func updateUser(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ident := identityFrom(c)

		var req updateUserRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}
		if req.Name == "" && req.Email == "" && req.OldPassword == "" && req.NewPassword == "" {
			return fail(c, http.StatusBadRequest, "please provide at least one field to update")
		}
		if (req.OldPassword == "") != (req.NewPassword == "") {
			return fail(c, http.StatusBadRequest, "please provide both old password and new password")
		}

		user, err := store.UserByID(ctx, ident.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, http.StatusNotFound, "user does not exist")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		var upd domain.UserUpdate
		if req.OldPassword != "" {
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
				return fail(c, http.StatusForbidden, "old password is incorrect")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				c.Logger().Error(err)
				return fail(c, http.StatusInternalServerError, "server error")
			}
			h := string(hash)
			upd.PasswordHash = &h
		}
		if req.Name != "" {
			upd.Name = &req.Name
		}
		if req.Email != "" {
			upd.Email = &req.Email
		}

		updated, err := store.UpdateUser(ctx, ident.ID, upd)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return fail(c, http.StatusNotFound, "user does not exist")
			case errors.Is(err, storage.ErrDuplicateEmail):
				return fail(c, http.StatusBadRequest, "email already in use")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		return c.JSON(http.StatusOK, envelope{
			Success: true,
			Message: "user details updated successfully",
			Data:    userData{ID: updated.ID, Name: updated.Name, Email: updated.Email},
		})
	}
}

type addToBoardRequest struct {
	Email string `json:"email"`
}

func addToBoard(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := identityFrom(c)

		var req addToBoardRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid request body")
		}
		if req.Email == "" {
			return fail(c, http.StatusBadRequest, "please provide an email")
		}

		err := store.AddBoardEmail(c.Request().Context(), ident.ID, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrDuplicateBoardEmail):
				return fail(c, http.StatusBadRequest, "email already added in your board")
			case errors.Is(err, storage.ErrNotFound):
				return fail(c, http.StatusNotFound, "user not found")
			}
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		return c.JSON(http.StatusOK, envelope{Success: true, Message: "email added to user board successfully"})
	}
}

// analyticsResponse mirrors the shape the dashboard consumes.
type analyticsResponse struct {
	Status string           `json:"status"`
	Data   domain.Analytics `json:"data"`
}

func getAnalytics(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ident := identityFrom(c)

		created, err := store.TasksCreatedBy(ctx, ident.ID)
		if err != nil {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}
		assigned, err := store.TasksAssignedTo(ctx, ident.Email)
		if err != nil {
			c.Logger().Error(err)
			return fail(c, http.StatusInternalServerError, "server error")
		}

		analytics := domain.TallyAnalytics(created, assigned, time.Now())
		return c.JSON(http.StatusOK, analyticsResponse{Status: "success", Data: analytics})
	}
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
