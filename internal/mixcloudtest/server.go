// Package mixcloudtest provides an in-memory Mixcloud API for tests.
package mixcloudtest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jaki95/mixcloud/internal/domain"
)

const (
	defaultPageSize = 20
	maxUploadMemory = 32 << 20
)

// UploadHandler answers an upload with a status code and a JSON body.
type UploadHandler func(upload *Upload) (status int, body any)

// Request is a request the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

// Server serves the API endpoints the client uses, under URL(), and the
// OAuth endpoints under OAuthRoot().
type Server struct {
	srv *httptest.Server

	mu          sync.Mutex
	artists     map[string]domain.Artist
	users       map[string]domain.User
	cloudcasts  map[string][]*domain.Cloudcast
	me          string
	accessToken string
	upload      UploadHandler
	exchange    http.HandlerFunc
	exchanges   []url.Values
	requests    []Request
}

func New() *Server {
	s := &Server{
		artists:    make(map[string]domain.Artist),
		users:      make(map[string]domain.User),
		cloudcasts: make(map[string][]*domain.Cloudcast),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

func (s *Server) Close() { s.srv.Close() }

// URL is the API root.
func (s *Server) URL() string { return s.srv.URL }

// OAuthRoot is the base of the authorize and access_token endpoints.
func (s *Server) OAuthRoot() string { return s.srv.URL + "/oauth" }

// RequireAccessToken makes /me/ and /upload/ reject requests that do not
// carry token.
func (s *Server) RequireAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *Server) RegisterArtist(artist domain.Artist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists[artist.Key] = artist
}

func (s *Server) RegisterUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Key] = user
}

// RegisterCloudcast adds cc to user's cloudcasts, replacing one with the same
// key. The cloudcast's user is set to user, and its creation time to now when
// it has none.
func (s *Server) RegisterCloudcast(user domain.User, cc *domain.Cloudcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerCloudcast(user, cc)
}

func (s *Server) RegisterCloudcasts(user domain.User, ccs []*domain.Cloudcast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cc := range ccs {
		s.registerCloudcast(user, cc)
	}
}

func (s *Server) registerCloudcast(user domain.User, cc *domain.Cloudcast) {
	info := cc.Info()
	info.User = user
	if info.Created.IsZero() {
		info.Created = time.Now().UTC().Truncate(time.Second)
	}
	if _, ok := s.users[user.Key]; !ok {
		s.users[user.Key] = user
	}

	stored := domain.NewCloudcast(info)
	list := s.cloudcasts[user.Key]
	for i, existing := range list {
		if existing.Key() == stored.Key() {
			list[i] = stored
			return
		}
	}
	s.cloudcasts[user.Key] = append(list, stored)
}

// IAm makes /me/ redirect to user.
func (s *Server) IAm(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Key]; !ok {
		s.users[user.Key] = user
	}
	s.me = user.Key
}

// HandleUpload installs the handler called for every upload.
func (s *Server) HandleUpload(handler UploadHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = handler
}

// MockUpload makes uploads publish the cloudcast for user, as the real
// service does.
func (s *Server) MockUpload(user domain.User) {
	s.HandleUpload(func(upload *Upload) (int, any) {
		cc, err := upload.Cloudcast(user)
		if err != nil {
			return http.StatusBadRequest, errorBody("UploadError", err.Error())
		}
		s.RegisterCloudcast(user, cc)
		return http.StatusOK, map[string]any{
			"result": map[string]any{
				"success": true,
				"key":     "/" + user.Key + "/" + cc.Key() + "/",
				"message": "Uploaded " + cc.Name(),
			},
		}
	})
}

// OAuthExchange makes the token endpoint trade code for accessToken.
// Other codes are refused.
func (s *Server) OAuthExchange(code, accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchange = func(w http.ResponseWriter, r *http.Request) {
		if r.PostForm.Get("code") != code {
			writeJSON(w, http.StatusBadRequest, errorBody("OAuthException", "Invalid authorization code"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
	}
}

// OAuthExchangeFail makes the token endpoint refuse every code.
func (s *Server) OAuthExchangeFail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchange = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, errorBody("OAuthException", "Invalid authorization code"))
	}
}

// Exchanges returns the forms posted to the token endpoint.
func (s *Server) Exchanges() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.exchanges...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()})
	s.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	slog.Debug("Mock request", "method", r.Method, "path", r.URL.Path)

	switch {
	case len(parts) == 2 && parts[0] == "oauth" && parts[1] == "access_token":
		s.handleExchange(w, r)
	case len(parts) == 2 && parts[0] == "artist":
		s.handleArtist(w, parts[1])
	case len(parts) == 1 && parts[0] == "me":
		s.handleMe(w, r)
	case len(parts) == 1 && parts[0] == "upload":
		s.handleUpload(w, r)
	case len(parts) == 1 && parts[0] != "":
		s.handleUser(w, parts[0])
	case len(parts) == 2 && parts[1] == "cloudcasts":
		s.handleCloudcasts(w, r, parts[0])
	case len(parts) == 2:
		s.handleCloudcast(w, parts[0], parts[1])
	default:
		notFound(w, r.URL.Path)
	}
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	got := r.URL.Query().Get("access_token")
	if got == "" || (token != "" && got != token) {
		writeJSON(w, http.StatusUnauthorized, errorBody("OAuthException", "An invalid access token was provided"))
		return false
	}
	return true
}

func (s *Server) handleArtist(w http.ResponseWriter, slug string) {
	s.mu.Lock()
	artist, ok := s.artists[slug]
	s.mu.Unlock()
	if !ok {
		notFound(w, "artist "+slug)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleUser(w http.ResponseWriter, username string) {
	s.mu.Lock()
	user, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		notFound(w, "user "+username)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	s.mu.Lock()
	me := s.me
	s.mu.Unlock()
	if me == "" {
		notFound(w, "me")
		return
	}
	http.Redirect(w, r, "/"+url.PathEscape(me)+"/", http.StatusFound)
}

func (s *Server) handleCloudcast(w http.ResponseWriter, username, key string) {
	s.mu.Lock()
	var found *domain.Cloudcast
	for _, cc := range s.cloudcasts[username] {
		if cc.Key() == key {
			found = cc
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		notFound(w, "cloudcast "+username+"/"+key)
		return
	}
	writeJSON(w, http.StatusOK, cloudcastBody(found, true))
}

func (s *Server) handleCloudcasts(w http.ResponseWriter, r *http.Request, username string) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("ParameterError", err.Error()))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("ParameterError", err.Error()))
		return
	}

	s.mu.Lock()
	_, known := s.users[username]
	list := s.cloudcasts[username]
	s.mu.Unlock()
	if !known {
		notFound(w, "user "+username)
		return
	}

	data := []map[string]any{}
	for i := offset; i < len(list) && i < offset+limit; i++ {
		data = append(data, cloudcastBody(list[i], false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("MethodError", "upload requires POST"))
		return
	}
	if !s.authorized(w, r) {
		io.Copy(io.Discard, r.Body)
		return
	}

	upload, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("UploadError", err.Error()))
		return
	}

	s.mu.Lock()
	handler := s.upload
	s.mu.Unlock()
	if handler == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody("UploadError", "uploads are not handled"))
		return
	}
	status, body := handler(upload)
	writeJSON(w, status, body)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("MethodError", "access_token requires POST"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("OAuthException", err.Error()))
		return
	}

	s.mu.Lock()
	s.exchanges = append(s.exchanges, r.PostForm)
	exchange := s.exchange
	s.mu.Unlock()
	if exchange == nil {
		notFound(w, r.URL.Path)
		return
	}
	exchange(w, r)
}

// cloudcastBody renders cc the way the API does. Listing entries carry no
// tracklist or description.
func cloudcastBody(cc *domain.Cloudcast, full bool) map[string]any {
	tags := make([]map[string]string, 0, len(cc.Tags()))
	for _, tag := range cc.Tags() {
		tags = append(tags, map[string]string{"name": tag})
	}
	pictures := cc.Pictures()
	if len(pictures) == 0 {
		pictures = map[string]string{
			domain.PictureLarge: fmt.Sprintf("https://thumbnailer.mixcloud.com/unsafe/300x300/%s/%s.jpg", cc.User().Key, cc.Key()),
		}
	}

	body := map[string]any{
		"slug":         cc.Key(),
		"name":         cc.Name(),
		"user":         cc.User(),
		"tags":         tags,
		"pictures":     pictures,
		"created_time": cc.Created().Format(time.RFC3339),
	}
	if full {
		sections := cc.Sections()
		if sections == nil {
			sections = []domain.Section{}
		}
		body["sections"] = sections
		body["description"] = cc.Description()
	}
	return body
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}

func errorBody(errType, message string) map[string]any {
	return map[string]any{"error": map[string]string{"type": errType, "message": message}}
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, errorBody("NotFoundError", what+" not found"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write mock response", "error", err)
	}
}
