package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"draftsmith/internal/assistant"
	"draftsmith/internal/document"
	"draftsmith/internal/export"
	"draftsmith/internal/session"
)

const maxRequestBody = 1 << 20

// sessionView is the document state returned to the editor client.
type sessionView struct {
	ID            string             `json:"id"`
	CreatedAt     time.Time          `json:"created_at"`
	Document      string             `json:"document"`
	Sections      []document.Section `json:"sections"`
	State         string             `json:"state"`
	SelectedIndex int                `json:"selected_index"`
	SelectedTitle string             `json:"selected_title,omitempty"`
	Draft         string             `json:"draft,omitempty"`
	Span          *session.Span      `json:"span,omitempty"`
	Generating    bool               `json:"generating"`
}

func viewOf(sess *session.Session) sessionView {
	v := sessionView{
		ID:            sess.ID(),
		CreatedAt:     sess.CreatedAt(),
		Document:      sess.Document(),
		Sections:      sess.Sections(),
		State:         sess.State().String(),
		SelectedIndex: -1,
		Generating:    sess.Generating(),
	}

	if sec, idx := sess.Selection(); idx >= 0 {
		v.SelectedIndex = idx
		v.SelectedTitle = sec.Title
	}
	if draft, ok := sess.Draft(); ok {
		v.Draft = draft
	}
	if span, ok := sess.ActiveSpan(); ok {
		v.Span = &span
	}

	return v
}

func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.Error(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(dst); err != nil {
		s.Error(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// handleCreateContract validates the intake form, opens a session and relays
// the generated contract to the client delta by delta.
func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.Error(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := assistant.ValidateForm(raw); err != nil {
		s.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var form assistant.ContractForm
	if err := json.Unmarshal(raw, &form); err != nil {
		s.Error(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	sess := s.sessions.Create()
	prompt := assistant.BuildContractPrompt(form)

	sess.BeginGeneration()
	streamErr := s.provider.Stream(r.Context(), prompt, func(delta string) {
		sess.Append(delta)
		sse.Delta(delta)
	})
	sess.EndGeneration()

	if streamErr != nil {
		slog.Error("contract generation failed", "session_id", sess.ID(), "error", streamErr)
		sse.Error(streamErr.Error())
		return
	}

	sess.AddTurn(session.GeneralTopic, session.RoleUser, prompt)
	sess.AddTurn(session.GeneralTopic, session.RoleAssistant, sess.Document())
	s.persistTurn(r, sess.ID(), session.GeneralTopic, session.Turn{Role: session.RoleUser, Content: prompt})
	s.persistTurn(r, sess.ID(), session.GeneralTopic, session.Turn{Role: session.RoleAssistant, Content: sess.Document()})

	slog.Info("contract generated", "session_id", sess.ID(), "bytes", len(sess.Document()))
	sse.Done(sess.ID())
}

// handleQuery is a non-streaming passthrough; the response shape mirrors the
// upstream service rather than the standard envelope.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionBody string `json:"question_body"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.QuestionBody) == "" {
		s.Error(w, r, http.StatusBadRequest, "question_body is required")
		return
	}

	text, err := s.provider.Complete(r.Context(), req.QuestionBody)
	if err != nil {
		s.Error(w, r, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"llm_response": text})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Index *int `json:"index"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if req.Index == nil {
		sess.ClearSelection()
		s.Success(w, http.StatusOK, viewOf(sess))
		return
	}

	if err := sess.Select(*req.Index); err != nil {
		s.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleSpan(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Start *int   `json:"start"`
		End   *int   `json:"end"`
		Text  string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if req.Start == nil || req.End == nil {
		sess.ClearSpan()
		s.Success(w, http.StatusOK, viewOf(sess))
		return
	}

	if err := sess.SetSpan(*req.Start, *req.End, req.Text); err != nil {
		s.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := sess.BeginEdit(); err != nil {
		s.Error(w, r, s.editStatus(err), err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Draft string `json:"draft"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := sess.UpdateDraft(req.Draft); err != nil {
		s.Error(w, r, s.editStatus(err), err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := sess.SaveEdit(req.Body); err != nil {
		s.Error(w, r, s.editStatus(err), err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := sess.CancelEdit(); err != nil {
		s.Error(w, r, s.editStatus(err), err.Error())
		return
	}
	s.Success(w, http.StatusOK, viewOf(sess))
}

func (s *Server) editStatus(err error) int {
	if errors.Is(err, session.ErrGenerating) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// handleChat streams an assistant reply. With a section topic the reply is
// spliced into that section; with the general topic nothing is mutated.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Topic   string `json:"topic"`
		Message string `json:"message"`
		OldText string `json:"old_text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.Error(w, r, http.StatusBadRequest, "message is required")
		return
	}
	if !sess.TryBeginGeneration() {
		s.Error(w, r, http.StatusConflict, session.ErrGenerating.Error())
		return
	}
	defer sess.EndGeneration()

	topic := req.Topic
	if topic == "" {
		topic = session.GeneralTopic
	}

	var prompt string
	if topic == session.GeneralTopic {
		prompt = assistant.BuildGeneralChatPrompt(sess.Document(), req.Message)
	} else if sec, found := sess.SectionByTitle(topic); found {
		prompt = assistant.BuildSectionRewritePrompt(sec.Title, sec.Body, req.Message)
	} else if span, active := sess.ActiveSpan(); active {
		prompt = assistant.BuildSectionRewritePrompt(span.Title, span.Text, req.Message)
	} else {
		s.Error(w, r, http.StatusBadRequest, "no section titled "+topic)
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	var reply strings.Builder
	streamErr := s.provider.Stream(r.Context(), prompt, func(delta string) {
		reply.WriteString(delta)
		sse.Delta(delta)
	})

	if streamErr != nil {
		slog.Error("chat stream failed", "session_id", sess.ID(), "topic", topic, "error", streamErr)
		sse.Error(streamErr.Error())
		return
	}

	if topic != session.GeneralTopic {
		if err := sess.ApplyRewrite(topic, req.OldText, strings.TrimSpace(reply.String())); err != nil {
			slog.Error("rewrite splice failed", "session_id", sess.ID(), "topic", topic, "error", err)
			sse.Error(err.Error())
			return
		}
	}

	sess.AddTurn(topic, session.RoleUser, req.Message)
	sess.AddTurn(topic, session.RoleAssistant, reply.String())
	s.persistTurn(r, sess.ID(), topic, session.Turn{Role: session.RoleUser, Content: req.Message})
	s.persistTurn(r, sess.ID(), topic, session.Turn{Role: session.RoleAssistant, Content: reply.String()})

	sse.Done(sess.ID())
}

// handleTranscript serves conversation history. Live sessions answer from
// memory; otherwise the transcript store is consulted, so persisted
// conversations outlive their session.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topic := r.URL.Query().Get("topic")

	if sess, ok := s.sessions.Get(id); ok {
		if topic == "" {
			s.Success(w, http.StatusOK, map[string]interface{}{"topics": sess.Topics()})
			return
		}
		s.Success(w, http.StatusOK, map[string]interface{}{"topic": topic, "turns": sess.Conversation(topic)})
		return
	}

	if s.store == nil {
		s.Error(w, r, http.StatusNotFound, "session not found")
		return
	}

	if topic == "" {
		topics, err := s.store.Topics(r.Context(), id)
		if err != nil {
			s.Error(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		if len(topics) == 0 {
			s.Error(w, r, http.StatusNotFound, "session not found")
			return
		}
		s.Success(w, http.StatusOK, map[string]interface{}{"topics": topics})
		return
	}

	turns, err := s.store.Transcript(r.Context(), id, topic)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if len(turns) == 0 {
		s.Error(w, r, http.StatusNotFound, "no transcript for topic "+topic)
		return
	}
	s.Success(w, http.StatusOK, map[string]interface{}{"topic": topic, "turns": turns})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	html, err := export.HTML(sess.Document())
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) persistTurn(r *http.Request, sessionID, topic string, turn session.Turn) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveTurn(r.Context(), sessionID, topic, turn); err != nil {
		slog.Warn("failed to persist turn", "session_id", sessionID, "topic", topic, "error", err)
	}
}
