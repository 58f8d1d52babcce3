package httpapi

import (
	"net/http"
)

// login: POST /api/login?id=<uid>, body is the password hash. Replies with
// the token as plain text.
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	hash, err := readHash(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.svc.Users.Login(r.Context(), id, hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, token)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := s.svc.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, u)
}

// createUser: POST /api/user?name=&email=, body is the password hash.
func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	hash, err := readHash(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()

	u, err := s.svc.Users.Signup(r.Context(), q.Get("name"), q.Get("email"), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, u)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(w, s.svc.Users.Update(r.Context(), principal(r), q.Get("name"), q.Get("email")))
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	respond(w, s.svc.Users.Delete(r.Context(), principal(r)))
}

func (s *HTTPServer) userGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Users.Groups(r.Context(), principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, groups)
}

func (s *HTTPServer) userDMs(w http.ResponseWriter, r *http.Request) {
	dms, err := s.svc.Users.DMs(r.Context(), principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, dms)
}

// leaveGroup: DELETE /api/user/groups?gid=
func (s *HTTPServer) leaveGroup(w http.ResponseWriter, r *http.Request) {
	gid, err := queryID(r, "gid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Users.LeaveGroup(r.Context(), principal(r), gid))
}

// leaveDM: DELETE /api/user/dms?gid=
func (s *HTTPServer) leaveDM(w http.ResponseWriter, r *http.Request) {
	gid, err := queryID(r, "gid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Users.LeaveDM(r.Context(), principal(r), gid))
}
