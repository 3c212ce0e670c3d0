package main

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mowziolabs/mowzio/internal/agent"
	"github.com/mowziolabs/mowzio/internal/llm"
	"github.com/mowziolabs/mowzio/internal/memory"
	"github.com/mowziolabs/mowzio/internal/telegram"
)

func handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	executeTemplate(w, "index.html", nil)
}

// handleWebhook processes incoming Telegram updates. It always answers 200:
// a non-2xx makes Telegram redeliver the update, and a failed handler would
// fail again.
func handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer w.WriteHeader(http.StatusOK)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Errorw("failed to read webhook body", "error", err)
		return
	}
	update, err := telegram.ParseUpdate(body)
	if err != nil {
		logger.Errorw("failed to parse update", "error", err)
		return
	}
	if err := registry.Dispatch(r.Context(), update); err != nil {
		logger.Errorw("error processing update", "error", err)
		// Best-effort apology so the user is not left hanging.
		if update.Message != nil {
			if sendErr := sendPlain(r.Context(), update.Message.Chat.ID, apologyReply); sendErr != nil {
				logger.Errorw("failed to send error message to user", "error", sendErr)
			}
		}
	}
}

// chatMessageView is one rendered line of web chat history.
type chatMessageView struct {
	Role    string
	Content string
}

type chatPageData struct {
	Title    string
	Messages []chatMessageView
}

// webConversationID returns the conversation ID stored in the cookie
// session, creating one on first visit.
func webConversationID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, _ := sessionStore.Get(r, sessionName)
	if id, ok := session.Values["conversation_id"].(string); ok && id != "" {
		return "web:" + id, nil
	}
	id := uuid.NewString()
	session.Values["conversation_id"] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return "web:" + id, nil
}

func handleChat(w http.ResponseWriter, r *http.Request) {
	convID, err := webConversationID(w, r)
	if err != nil {
		logger.Errorw("failed to save session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	mem := memory.NewPersistedWindowBuffer(db, convID, 0)
	history, err := mem.Messages()
	if err != nil {
		logger.Errorw("failed to load chat history", "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	data := chatPageData{Title: "Mowzio"}
	for _, m := range history {
		if m.Role == llm.RoleSystem {
			continue
		}
		data.Messages = append(data.Messages, chatMessageView{Role: m.Role, Content: m.Content})
	}
	executeTemplate(w, "chat.html", data)
}

func handleChatSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	text := r.FormValue("message")
	if text == "" {
		http.Redirect(w, r, "/chat", http.StatusFound)
		return
	}

	convID, err := webConversationID(w, r)
	if err != nil {
		logger.Errorw("failed to save session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	mem := memory.NewPersistedWindowBuffer(db, convID, 0)
	ag, err := agent.New(llmClient, mem, agent.DefaultTools(), logger)
	if err != nil {
		logger.Errorw("failed to build agent", "error", err)
		http.Error(w, "agent error", http.StatusInternalServerError)
		return
	}
	if _, err := ag.Process(r.Context(), text); err != nil {
		logger.Errorw("agent processing failed", "error", err)
		http.Error(w, "agent error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/chat", http.StatusFound)
}

func executeTemplate(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Errorw("template execution failed", "template", name, "error", err)
	}
}
