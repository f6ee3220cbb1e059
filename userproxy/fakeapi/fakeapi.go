// Package fakeapi is an in-memory REST service with the routes the proxy
// gateway expects from its upstream. It answers the way json-server does:
// numeric ids, 404 with an empty object for unknown ids, and an empty
// object on DELETE.
package fakeapi

import (
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/gqlgate/gqlgate/userproxy"
)

type User struct {
	ID        int          `json:"id"`
	FirstName string       `json:"firstName"`
	Age       int          `json:"age"`
	CompanyID userproxy.ID `json:"companyId,omitempty"`
}

type Company struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// userBody is what clients send on POST and PUT. Any id in the body is
// ignored.
type userBody struct {
	FirstName string       `json:"firstName"`
	Age       int          `json:"age"`
	CompanyID userproxy.ID `json:"companyId"`
}

type API struct {
	router *mux.Router

	mu        sync.RWMutex
	users     map[int]*User
	companies map[int]*Company
	lastUser  int
	lastComp  int

	writes atomic.Int64
}

// New returns an empty API.
func New() *API {
	a := &API{
		users:     map[int]*User{},
		companies: map[int]*Company{},
	}
	r := mux.NewRouter()
	r.HandleFunc("/users", a.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", a.replaceUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", a.deleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/companies", a.listCompanies).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id}", a.getCompany).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id}/users", a.companyUsers).Methods(http.MethodGet)
	a.router = r
	return a
}

// NewSeeded returns an API holding two companies and three users.
func NewSeeded() *API {
	a := New()
	apple := a.AddCompany("Apple", "iphone")
	google := a.AddCompany("Google", "search")
	a.AddUser("Bill", 20, apple.ID)
	a.AddUser("Samantha", 21, google.ID)
	a.AddUser("Alex", 40, google.ID)
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Writes reports how many mutating requests succeeded.
func (a *API) Writes() int64 {
	return a.writes.Load()
}

func (a *API) AddCompany(name, description string) Company {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastComp++
	c := &Company{ID: a.lastComp, Name: name, Description: description}
	a.companies[c.ID] = c
	return *c
}

func (a *API) AddUser(firstName string, age int, companyID int) User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.insertUser(userBody{
		FirstName: firstName,
		Age:       age,
		CompanyID: userproxy.ID(strconv.Itoa(companyID)),
	})
}

func (a *API) insertUser(b userBody) User {
	a.lastUser++
	u := &User{ID: a.lastUser, FirstName: b.FirstName, Age: b.Age, CompanyID: b.CompanyID}
	a.users[u.ID] = u
	return *u
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	writeJSON(w, http.StatusOK, sorted(a.users, func(u *User) int { return u.ID }))
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var b userBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.mu.Lock()
	u := a.insertUser(b)
	a.mu.Unlock()
	a.writes.Add(1)
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	u, ok := a.users[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) replaceUser(w http.ResponseWriter, r *http.Request) {
	var b userBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := pathID(r)
	if _, ok := a.users[id]; !ok {
		notFound(w)
		return
	}
	u := &User{ID: id, FirstName: b.FirstName, Age: b.Age, CompanyID: b.CompanyID}
	a.users[id] = u
	a.writes.Add(1)
	writeJSON(w, http.StatusOK, u)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := pathID(r)
	if _, ok := a.users[id]; !ok {
		notFound(w)
		return
	}
	delete(a.users, id)
	a.writes.Add(1)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (a *API) listCompanies(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	writeJSON(w, http.StatusOK, sorted(a.companies, func(c *Company) int { return c.ID }))
}

func (a *API) getCompany(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.companies[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) companyUsers(w http.ResponseWriter, r *http.Request) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id := mux.Vars(r)["id"]
	users := lo.Filter(sorted(a.users, func(u *User) int { return u.ID }), func(u *User, _ int) bool {
		return string(u.CompanyID) == id
	})
	writeJSON(w, http.StatusOK, users)
}

// pathID returns the numeric {id} route variable, or 0 which never
// matches a record.
func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func sorted[T any](m map[int]*T, key func(*T) int) []*T {
	l := lo.Values(m)
	slices.SortFunc(l, func(a, b *T) int { return key(a) - key(b) })
	return l
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, struct{}{})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
