package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"lanreg/internal/model"
	"lanreg/internal/registrar"
)

func roleOf(u *model.User) string {
	if u != nil {
		return u.Role
	}
	return ""
}

func requesterOf(u *model.User) registrar.Requester {
	if u == nil {
		return registrar.Requester{}
	}
	return registrar.Requester{UserID: u.ID, Role: u.Role}
}

func flashRedirect(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, fmt.Sprintf("%s?msg=%s", path, url.QueryEscape(msg)), http.StatusSeeOther)
}
