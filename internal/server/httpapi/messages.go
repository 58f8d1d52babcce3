package httpapi

import (
	"net/http"
)

// createThread: PUT /api/message/thread?id=&name=. Replies with the thread
// channel, which is the existing one if the message already has a thread.
func (s *HTTPServer) createThread(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := s.svc.Messages.CreateThread(r.Context(), principal(r), id, r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ch)
}

func (s *HTTPServer) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Messages.Delete(r.Context(), principal(r), id))
}
