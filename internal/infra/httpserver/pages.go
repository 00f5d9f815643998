package httpserver

import (
	"errors"
	"net/http"

	"github.com/sakshisonawane10/Blast-Radius/internal/application/session"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/render"
)

const sessionCookie = "blast_session"

// browserSession returns the session bound to the request cookie, creating
// one and setting the cookie when needed.
func (r *Router) browserSession(w http.ResponseWriter, req *http.Request) *session.Session {
	if c, err := req.Cookie(sessionCookie); err == nil {
		if s, err := r.Sessions.Get(c.Value); err == nil {
			return s
		}
	}
	s := r.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   req.TLS != nil,
	})
	return s
}

func pageFor(st session.State) render.Page {
	return render.Page{
		Input:      st.Input,
		Loading:    st.Loading,
		Error:      st.Error,
		Analysis:   st.Analysis,
		Advisories: st.Advisories,
	}
}

func (r *Router) renderPage(w http.ResponseWriter, status int, p render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.Pages.Render(w, p); err != nil {
		r.Logger.Error("render page", "err", err)
	}
}

// GET /
func (r *Router) handlePage(w http.ResponseWriter, req *http.Request) {
	s := r.browserSession(w, req)
	r.renderPage(w, http.StatusOK, pageFor(s.State()))
}

// POST /assess
func (r *Router) handlePageSubmit(w http.ResponseWriter, req *http.Request) {
	s := r.browserSession(w, req)
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := req.ParseForm(); err != nil {
		r.renderPage(w, http.StatusBadRequest, render.Page{Error: "The form could not be read."})
		return
	}
	in := blast.RiskInput{
		Context:         req.PostForm.Get("context"),
		ProposedFeature: req.PostForm.Get("proposedFeature"),
		IntendedOutcome: req.PostForm.Get("intendedOutcome"),
	}
	s.SetDraft(in)

	err := s.Submit(req.Context(), in)
	page := pageFor(s.State())
	switch {
	case err == nil:
		r.renderPage(w, http.StatusOK, page)
	case errors.Is(err, blast.ErrInvalidInput):
		page.Input = in
		page.Error = "Please fill in the context, the proposed feature and the intended outcome."
		r.renderPage(w, http.StatusBadRequest, page)
	case errors.Is(err, session.ErrInFlight):
		r.renderPage(w, http.StatusConflict, page)
	default:
		// the session already holds the generic message
		r.renderPage(w, http.StatusOK, page)
	}
}

// POST /reset
func (r *Router) handlePageReset(w http.ResponseWriter, req *http.Request) {
	s := r.browserSession(w, req)
	s.Reset()
	http.Redirect(w, req, "/", http.StatusSeeOther)
}
