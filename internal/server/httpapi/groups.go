package httpapi

import (
	"net/http"
)

func (s *HTTPServer) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.svc.Groups.Get(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, g)
}

func (s *HTTPServer) createGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Groups.Create(r.Context(), principal(r), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, g)
}

// createDM: POST /api/dm?uid=
func (s *HTTPServer) createDM(w http.ResponseWriter, r *http.Request) {
	uid, err := queryID(r, "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.svc.Groups.CreateDM(r.Context(), principal(r), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, g)
}

func (s *HTTPServer) renameGroup(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.Rename(r.Context(), principal(r), id, r.URL.Query().Get("name")))
}

func (s *HTTPServer) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.Delete(r.Context(), principal(r), id))
}

func (s *HTTPServer) groupMembers(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	users, err := s.svc.Groups.Members(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, users)
}

func (s *HTTPServer) addGroupMember(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "gid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.AddMember(r.Context(), principal(r), ids[0], ids[1]))
}

func (s *HTTPServer) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "gid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.RemoveMember(r.Context(), principal(r), ids[0], ids[1]))
}

func (s *HTTPServer) groupAdmins(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	users, err := s.svc.Groups.Admins(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, users)
}

func (s *HTTPServer) addGroupAdmin(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "gid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.AddAdmin(r.Context(), principal(r), ids[0], ids[1]))
}

func (s *HTTPServer) removeGroupAdmin(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "gid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Groups.RemoveAdmin(r.Context(), principal(r), ids[0], ids[1]))
}

func (s *HTTPServer) groupChannels(w http.ResponseWriter, r *http.Request) {
	gid, err := queryID(r, "gid")
	if err != nil {
		writeError(w, err)
		return
	}
	chans, err := s.svc.Groups.Channels(r.Context(), principal(r), gid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, chans)
}

func (s *HTTPServer) createChannel(w http.ResponseWriter, r *http.Request) {
	gid, err := queryID(r, "gid")
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := s.svc.Groups.CreateChannel(r.Context(), principal(r), gid, r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ch)
}
