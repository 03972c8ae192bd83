// Package rest exposes the conversation service over HTTP. The API is
// multipart-friendly so the browser client can post either typed text or a
// recorded audio clip to the same endpoint.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/abhisek/linguo/internal/conversation"
	"github.com/abhisek/linguo/internal/speech"
)

// maxUploadBytes bounds the multipart body; audio clips are short.
const maxUploadBytes = 16 << 20

// Config holds the transport settings.
type Config struct {
	// StaticDir is where synthesized audio files are written. Served
	// under /static/.
	StaticDir string

	// AllowedOrigin is the CORS origin for the browser client. Empty
	// disables CORS headers.
	AllowedOrigin string
}

// Handler serves the conversation API.
type Handler struct {
	svc         *conversation.Service
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	cfg         Config
}

// NewHandler creates the API handler. transcriber and synthesizer may be
// nil; the API then runs text-only.
func NewHandler(svc *conversation.Service, transcriber speech.Transcriber, synthesizer speech.Synthesizer, cfg Config) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("rest: conversation service is required")
	}
	if cfg.StaticDir != "" {
		if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
			return nil, fmt.Errorf("create static dir: %w", err)
		}
	}
	return &Handler{
		svc:         svc,
		transcriber: transcriber,
		synthesizer: synthesizer,
		cfg:         cfg,
	}, nil
}

// Router builds the HTTP routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware(h.cfg.AllowedOrigin))

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/start_chat", h.handleStartChat).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/chat", h.handleChat).Methods(http.MethodPost, http.MethodOptions)

	if h.cfg.StaticDir != "" {
		r.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(h.cfg.StaticDir))))
	}
	return r
}

type chatResponse struct {
	SessionID   string `json:"session_id"`
	Reply       string `json:"reply"`
	Correction  string `json:"correction,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	CEFRLevel   string `json:"cefr_level,omitempty"`
	InLesson    bool   `json:"in_lesson"`
	AudioURL    string `json:"audio_url,omitempty"`
	NoSpeech    bool   `json:"no_speech,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleStartChat(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.Start(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to start session"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: reply.SessionID,
		Reply:     reply.Message,
	})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	input, ok, noSpeech := h.resolveInput(r)
	if noSpeech {
		// Valid audio with no recognizable speech. The session state is
		// untouched; the client should ask the user to try again.
		writeJSON(w, http.StatusOK, chatResponse{
			SessionID: sessionID,
			Reply:     "I couldn't hear anything in that recording. Could you try speaking again?",
			NoSpeech:  true,
		})
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no valid input provided"})
		return
	}

	reply, err := h.svc.Chat(r.Context(), sessionID, input)
	if errors.Is(err, conversation.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: chat failed for session %s: %v\n", sessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "chat step failed"})
		return
	}

	resp := chatResponse{
		SessionID:   reply.SessionID,
		Reply:       reply.Message,
		Correction:  reply.Correction,
		Explanation: reply.Explanation,
		CEFRLevel:   string(reply.Level),
		InLesson:    reply.InLesson,
	}

	// Lesson replies are spoken; assessment questions stay text-only.
	if reply.InLesson {
		if url, err := h.synthesizeReply(r.Context(), reply.Message, reply.SpeechSpeed); err != nil {
			fmt.Fprintf(os.Stderr, "warning: speech synthesis failed: %v\n", err)
		} else {
			resp.AudioURL = url
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// resolveInput extracts the user input from the form. Text takes
// precedence; otherwise an attached audio clip is transcribed. The third
// return is true when the audio was processed but carried no speech.
func (h *Handler) resolveInput(r *http.Request) (input string, ok bool, noSpeech bool) {
	if text := r.FormValue("text"); text != "" {
		return text, true, false
	}

	file, header, err := r.FormFile("audio")
	if err == nil {
		defer file.Close()
		if h.transcriber == nil {
			return "", false, false
		}
		transcript, terr := h.transcriber.Transcribe(r.Context(), file, header.Filename)
		if errors.Is(terr, speech.ErrNoSpeech) {
			return "", false, true
		}
		if terr != nil {
			fmt.Fprintf(os.Stderr, "warning: transcription failed: %v\n", terr)
			return "", false, false
		}
		return transcript, true, false
	}

	// The form may legitimately carry an empty text field, e.g. the
	// kick-off message after start_chat.
	if _, has := r.MultipartForm.Value["text"]; has {
		return "", true, false
	}
	return "", false, false
}

// synthesizeReply renders the reply as an mp3 under the static dir and
// returns its URL path.
func (h *Handler) synthesizeReply(ctx context.Context, text string, speed float64) (string, error) {
	if h.synthesizer == nil || h.cfg.StaticDir == "" || text == "" {
		return "", nil
	}

	name := uuid.NewString() + ".mp3"
	path := filepath.Join(h.cfg.StaticDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := h.synthesizer.Synthesize(ctx, text, speed, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return "/static/" + name, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to encode response: %v\n", err)
	}
}
