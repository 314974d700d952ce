package handlers

import "net/http"

// Home renders the landing page.
func (v *Views) Home(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusOK, "pages/home", nil)
}
