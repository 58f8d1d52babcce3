package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/services"
)

func (s *HTTPServer) getChannel(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := s.svc.Channels.Get(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ch)
}

func (s *HTTPServer) renameChannel(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Channels.Rename(r.Context(), principal(r), id, r.URL.Query().Get("name")))
}

// setChannelPrivate: PUT /api/channel/private?id=&val=true|false
func (s *HTTPServer) setChannelPrivate(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	val, err := queryBool(r, "val")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Channels.SetPrivate(r.Context(), principal(r), id, val))
}

func (s *HTTPServer) deleteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Channels.Delete(r.Context(), principal(r), id))
}

func (s *HTTPServer) channelMembers(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	users, err := s.svc.Channels.Members(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, users)
}

func (s *HTTPServer) addChannelMember(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "cid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Channels.AddMember(r.Context(), principal(r), ids[0], ids[1]))
}

func (s *HTTPServer) removeChannelMember(w http.ResponseWriter, r *http.Request) {
	ids, err := queryIDs(r, "cid", "uid")
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, s.svc.Channels.RemoveMember(r.Context(), principal(r), ids[0], ids[1]))
}

// searchChannel: GET /api/channel/term?cid=&term=&off=
func (s *HTTPServer) searchChannel(w http.ResponseWriter, r *http.Request) {
	cid, err := queryID(r, "cid")
	if err != nil {
		writeError(w, err)
		return
	}
	off, err := queryInt(r, "off", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	msgs, err := s.svc.Channels.Search(r.Context(), principal(r), cid, r.URL.Query().Get("term"), off)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, msgs)
}

// channelMessages: GET /api/channel/messages?cid=&num_msgs=
func (s *HTTPServer) channelMessages(w http.ResponseWriter, r *http.Request) {
	cid, err := queryID(r, "cid")
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := queryInt(r, "num_msgs", services.MaxMessages)
	if err != nil {
		writeError(w, err)
		return
	}
	msgs, err := s.svc.Channels.Messages(r.Context(), principal(r), cid, n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, msgs)
}
