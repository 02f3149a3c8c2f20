package web

import (
	"context"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/game"
	battlenet "github.com/peterkuimelis/cardclash/internal/net"
	"github.com/peterkuimelis/cardclash/internal/replay"
	"github.com/peterkuimelis/cardclash/internal/session"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rarity      string   `json:"rarity"`
	Description string   `json:"description,omitempty"`
	ATK         int      `json:"atk"`
	HP          int      `json:"hp"`
	CD          int      `json:"cd"`
	Traits      []string `json:"traits,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	ArtPath     string   `json:"artPath"`
}

// Options configures the web server.
type Options struct {
	Library    *session.Library
	CatalogDir string            // card art is served from here
	Replays    replay.Repository // nil means an in-memory store
	Games      *battlenet.Server // battles started over /ws
	Slog       *slog.Logger
}

// Server is the cardclash web UI server.
type Server struct {
	lib        *session.Library
	catalogDir string
	replays    replay.Repository
	games      *battlenet.Server
	log        *slog.Logger
	mux        *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(opts Options) (*Server, error) {
	if opts.Library == nil {
		return nil, errors.InvalidArgument("library is required")
	}
	if opts.Replays == nil {
		opts.Replays = replay.NewMemoryRepository()
	}
	if opts.Slog == nil {
		opts.Slog = slog.Default()
	}
	if opts.Games == nil {
		opts.Games = &battlenet.Server{Library: opts.Library}
	}
	// Battles played in the browser land in the same store the API lists.
	opts.Games.Replays = opts.Replays
	if opts.Games.Slog == nil {
		opts.Games.Slog = opts.Slog
	}

	s := &Server{
		lib:        opts.Library,
		catalogDir: opts.CatalogDir,
		replays:    opts.Replays,
		games:      opts.Games,
		log:        opts.Slog,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Card art lives next to the catalog: <rarity>/<id>.png
	s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.catalogDir))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/replays", s.handleReplays)
	s.mux.HandleFunc("GET /api/replays/{id}", s.handleReplay)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := []CardInfo{}
	for _, def := range s.lib.Catalog.Cards() {
		ci := CardInfo{
			ID:          def.ID,
			Name:        def.Name,
			Rarity:      def.Rarity.String(),
			Description: def.Description,
			ATK:         def.ATK,
			HP:          def.HP,
			CD:          def.CD,
			Traits:      def.Traits,
			ArtPath:     "/art/" + game.ArtPath(def),
		}
		for _, sk := range def.Skills {
			ci.Skills = append(ci.Skills, sk.Kind.String())
		}
		cards = append(cards, ci)
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleReplays(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.InvalidArgumentf("invalid limit %q", v))
			return
		}
		limit = n
	}
	list, err := s.replays.List(r.Context(), limit)
	if err != nil {
		s.log.Error("list replays", "error", err)
		writeError(w, err)
		return
	}
	if list == nil {
		list = []replay.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	rec, err := s.replays.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleWebSocket carries the terminal protocol over a WebSocket: the
// browser sends join, then play/end_turn; the server answers with update,
// choose_play, error and game_over messages.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.Warn("websocket accept", "error", err)
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	if err := s.games.ServeConn(ctx, conn); err != nil {
		s.log.Info("websocket battle ended", "error", err)
		wsConn.Close(websocket.StatusInternalError, "battle aborted")
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "battle over")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), map[string]string{
		"code":  code.String(),
		"error": err.Error(),
	})
}
