package rest

import (
	"net/http"

	"github.com/aniketri/real-insights-data/internal/application/dto"
)

type noteBody struct {
	Content string `json:"content"`
}

func (a *API) listNotes(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	notes, err := a.h.ListNotes.Execute(r.Context(), ref)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (a *API) addNote(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	var body noteBody
	if err := decodeJSON(r, &body); err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	claims, _ := principal(r)

	resp, err := a.h.AddNote.Execute(r.Context(), dto.AddNoteRequest{
		Content:        body.Content,
		AuthorName:     claims.Email,
		OrganizationID: ref.OrganizationID,
		LoanID:         ref.LoanID,
		AuthorID:       claims.UserID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) editNote(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	noteID, err := pathUUID(r, "noteID")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	var body noteBody
	if err := decodeJSON(r, &body); err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	claims, _ := principal(r)

	resp, err := a.h.EditNote.Execute(r.Context(), dto.EditNoteRequest{
		Content:        body.Content,
		OrganizationID: ref.OrganizationID,
		LoanID:         ref.LoanID,
		NoteID:         noteID,
		EditorID:       claims.UserID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) deleteNote(w http.ResponseWriter, r *http.Request) {
	ref, err := loanRef(r)
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	noteID, err := pathUUID(r, "noteID")
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	claims, _ := principal(r)

	err = a.h.DeleteNote.Execute(r.Context(), dto.DeleteNoteRequest{
		OrganizationID: ref.OrganizationID,
		LoanID:         ref.LoanID,
		NoteID:         noteID,
		RequesterID:    claims.UserID,
	})
	if err != nil {
		failWith(w, r, a.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
