// Package demo serves a local stand-in for the rock dashboard so the shell
// can be exercised without the production deployment.
package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"pkt.systems/pslog"
)

// SessionCookie is the name of the demo session cookie.
const SessionCookie = "session"

// Config configures the demo server.
type Config struct {
	AppName    string
	Username   string
	Password   string
	SessionTTL time.Duration
	Logger     pslog.Logger
}

// Server is the demo dashboard.
type Server struct {
	cfg    Config
	hash   []byte
	router *mux.Router
	log    pslog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

// New builds a demo server. Username and password are required.
func New(cfg Config) (*Server, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("demo server needs a username and password")
	}
	if cfg.AppName == "" {
		cfg.AppName = "Rock Dashboard"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}
	s := &Server{
		cfg:      cfg,
		hash:     hash,
		log:      cfg.Logger,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.requireSession(s.handleDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/history", s.requireSession(s.handleHistory)).Methods(http.MethodGet)
	r.HandleFunc("/dailytrend", s.requireSession(s.handleDailyTrend)).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard-data", s.handleDashboardData).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.log != nil {
		s.log.Debug("demo request", "method", r.Method, "path", r.URL.Path)
	}
	s.router.ServeHTTP(w, r)
}

func (s *Server) loggedIn(r *http.Request) bool {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[c.Value]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.sessions, c.Value)
		return false
	}
	return true
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.loggedIn(r) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	data.AppName = s.cfg.AppName
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil && s.log != nil {
		s.log.Error("demo render failed", "template", name, "err", err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login", pageData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	user := r.FormValue("username")
	pass := r.FormValue("password")
	if user != s.cfg.Username || bcrypt.CompareHashAndPassword(s.hash, []byte(pass)) != nil {
		s.render(w, "login", pageData{Title: "Login", Error: "Invalid credentials"})
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = s.now().Add(s.cfg.SessionTTL)
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about", pageData{Title: "About"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	totals := Totals()
	header := append([]string{"Node"}, SizeRanges...)
	rows := make([][]string, 0, len(Nodes))
	for _, node := range Nodes {
		row := []string{node}
		for _, size := range SizeRanges {
			row = append(row, strconv.Itoa(totals[node][size]))
		}
		rows = append(rows, row)
	}
	s.render(w, "table", pageData{
		Title:   "Dashboard",
		Updated: s.now().UTC().Format(time.RFC3339),
		Tables:  []pageTable{{Caption: "Totals by node", Header: header, Rows: rows}},
		Charts:  []pageChart{{Kind: "bar", Label: "All nodes", Labels: SizeRanges, Values: RangeTotals()}},
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	header := append([]string{"Day"}, SizeRanges...)
	var rows [][]string
	for _, h := range History() {
		row := []string{h.Day}
		for _, c := range h.Counts {
			row = append(row, strconv.Itoa(c))
		}
		rows = append(rows, row)
	}
	s.render(w, "table", pageData{
		Title:  "History",
		Tables: []pageTable{{Caption: "Last 7 days", Header: header, Rows: rows}},
	})
}

func (s *Server) handleDailyTrend(w http.ResponseWriter, r *http.Request) {
	charts := make([]pageChart, 0, len(SizeRanges))
	for i, size := range SizeRanges {
		labels, values := DailyTrend(i)
		charts = append(charts, pageChart{Kind: "line", Label: size, Labels: labels, Values: values})
	}
	s.render(w, "table", pageData{Title: "Daily Trend", Charts: charts})
}

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.loggedIn(r) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"totals":       Totals(),
		"last_updated": s.now().UTC().Format(time.RFC3339),
	})
}
