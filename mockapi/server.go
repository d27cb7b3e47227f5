// Package mockapi is an in-memory implementation of the users API. It behaves the way the
// contract tests expect the real service to behave, so that the test suite itself can be
// verified without depending on a third-party server.
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apitests/reqres-contract-tests/apidef"
	"github.com/apitests/reqres-contract-tests/framework"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	maxBodySize     = 1 << 20
	firstCreatedID  = 1000
	createdAtFormat = "2006-01-02T15:04:05.000Z"
)

type Options struct {
	// BasePath is the path prefix of all routes, such as "/api".
	BasePath string

	// PerPage is the page size of the listing.
	PerPage int

	// WriteDelay is how long each create request is held before it completes. A create that
	// arrives while another one is being held is rejected with 429.
	WriteDelay time.Duration

	// Logger receives one line per request. If nil, nothing is logged.
	Logger framework.Logger
}

func DefaultOptions() Options {
	return Options{
		BasePath:   "/api",
		PerPage:    6,
		WriteDelay: time.Millisecond * 100,
	}
}

// Server is an http.Handler implementing the users API.
type Server struct {
	opts           Options
	router         chi.Router
	seed           []apidef.UserRecord
	created        map[string]apidef.CreatedUser
	nextID         int
	writesInFlight int32
	lock           sync.Mutex
}

func New(opts Options) *Server {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultOptions().PerPage
	}
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	s := &Server{
		opts:    opts,
		seed:    seedUsers(),
		created: make(map[string]apidef.CreatedUser),
		nextID:  firstCreatedID,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, apidef.MessagePathNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusBadRequest, apidef.MessageMethodNotAllowed)
	})
	routes := func(r chi.Router) {
		r.Get(apidef.UsersPath, s.listUsers)
		r.Post(apidef.UsersPath, s.createUser)
		r.Get(apidef.UsersPath+"/{id}", s.getUser)
	}
	if basePath := strings.TrimSuffix(opts.BasePath, "/"); basePath == "" {
		routes(r)
	} else {
		r.Route(basePath, routes)
	}
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Total returns the number of users in the listing.
func (s *Server) Total() int {
	return len(s.seed)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), ww.Status(),
			time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	total := len(s.seed)
	totalPages := (total + s.opts.PerPage - 1) / s.opts.PerPage

	data := []apidef.UserRecord{}
	if start := (page - 1) * s.opts.PerPage; start < total {
		end := start + s.opts.PerPage
		if end > total {
			end = total
		}
		data = s.seed[start:end]
	}
	respondJSON(w, http.StatusOK, apidef.UserPage{
		Page:       page,
		PerPage:    s.opts.PerPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if n, err := strconv.Atoi(id); err == nil && n >= 1 && n <= len(s.seed) {
		respondJSON(w, http.StatusOK, apidef.SingleUser{Data: s.seed[n-1]})
		return
	}
	s.lock.Lock()
	user, ok := s.created[id]
	s.lock.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, apidef.SingleUser{Data: user})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	defer atomic.AddInt32(&s.writesInFlight, -1)
	if atomic.AddInt32(&s.writesInFlight, 1) > 1 {
		respondError(w, http.StatusTooManyRequests, apidef.MessageTooManyRequests)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("could not read request body: %s", err))
		return
	}

	if s.opts.WriteDelay > 0 {
		select {
		case <-time.After(s.opts.WriteDelay):
		case <-r.Context().Done():
			return
		}
	}

	user, message := validateUser(ldvalue.Parse(data))
	if message != "" {
		respondError(w, http.StatusBadRequest, message)
		return
	}

	s.lock.Lock()
	user.ID = strconv.Itoa(s.nextID)
	s.nextID++
	user.CreatedAt = time.Now().UTC().Format(createdAtFormat)
	s.created[user.ID] = user
	s.lock.Unlock()

	respondJSON(w, http.StatusCreated, user)
}

// validateUser checks a create payload. Values of the wrong type are reported as invalid
// before empty or missing values are reported as missing.
func validateUser(body ldvalue.Value) (apidef.CreatedUser, string) {
	if body.Type() != ldvalue.ObjectType {
		return apidef.CreatedUser{}, apidef.MessageInvalidValues
	}
	name, job := body.GetByKey("name"), body.GetByKey("job")
	age, country := body.GetByKey("age"), body.GetByKey("country")

	for _, v := range []ldvalue.Value{name, job} {
		if !v.IsNull() && v.Type() != ldvalue.StringType {
			return apidef.CreatedUser{}, apidef.MessageInvalidValues
		}
	}
	if !age.IsNull() && (!age.IsInt() || age.IntValue() < 0) {
		return apidef.CreatedUser{}, apidef.MessageInvalidValues
	}
	if !country.IsNull() && country.Type() != ldvalue.StringType {
		return apidef.CreatedUser{}, apidef.MessageInvalidValues
	}
	if name.StringValue() == "" || job.StringValue() == "" {
		return apidef.CreatedUser{}, apidef.MessageMissingValues
	}

	return apidef.CreatedUser{
		Name:    name,
		Job:     job.StringValue(),
		Age:     age.IntValue(),
		Country: country.StringValue(),
	}, ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, apidef.ErrorBody{Error: message})
}
