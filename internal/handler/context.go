package handler

import (
	"github.com/labstack/echo/v4"

	"inkwell/internal/model"
)

// CurrentUserKey is the context key under which the resolved acting user is
// stored by the auth middleware.
const CurrentUserKey = "currentUser"

func currentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(CurrentUserKey).(*model.User)
	return user, ok
}
