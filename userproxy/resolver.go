package userproxy

import (
	"context"
	"net/url"

	"github.com/graph-gophers/graphql-go"

	gqlerrors "github.com/gqlgate/gqlgate/errors"
	"github.com/gqlgate/gqlgate/restclient"
)

// Resolver is the root resolver. Apart from updateUser, which reads before
// it writes, every field issues exactly one upstream request.
type Resolver struct {
	Upstream Upstream
}

// NewResolver returns a root resolver forwarding to u.
func NewResolver(u Upstream) *Resolver {
	return &Resolver{Upstream: u}
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func companyPath(id string) string {
	return "/companies/" + url.PathEscape(id)
}

func (r *Resolver) Users(ctx context.Context) (*[]*userResolver, error) {
	var users []*User
	if err := r.Upstream.Get(ctx, "/users", &users); err != nil {
		return nil, gqlerrors.Upstream("list users", err)
	}
	return usersOf(r.Upstream, users), nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID *graphql.ID }) (*userResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	return getUser(ctx, r.Upstream, string(*args.ID))
}

func (r *Resolver) Companies(ctx context.Context) (*[]*companyResolver, error) {
	var companies []*Company
	if err := r.Upstream.Get(ctx, "/companies", &companies); err != nil {
		return nil, gqlerrors.Upstream("list companies", err)
	}
	l := make([]*companyResolver, len(companies))
	for i, c := range companies {
		l[i] = &companyResolver{c: c, upstream: r.Upstream}
	}
	return &l, nil
}

func (r *Resolver) Company(ctx context.Context, args struct{ ID *graphql.ID }) (*companyResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	return getCompany(ctx, r.Upstream, string(*args.ID))
}

type newUser struct {
	FirstName string `json:"firstName"`
	Age       int32  `json:"age"`
	CompanyID ID     `json:"companyId,omitempty"`
}

func (r *Resolver) AddUser(ctx context.Context, args struct {
	FirstName string
	Age       int32
	CompanyID *graphql.ID
}) (*userResolver, error) {
	body := newUser{FirstName: args.FirstName, Age: args.Age}
	if args.CompanyID != nil {
		body.CompanyID = ID(*args.CompanyID)
	}
	var created User
	if err := r.Upstream.Post(ctx, "/users", body, &created); err != nil {
		return nil, gqlerrors.Upstream("add user", err)
	}
	return &userResolver{u: &created, upstream: r.Upstream}, nil
}

// DeleteUser returns the deleted record as echoed by the upstream. An empty
// echo yields a user carrying only its id; a missing user yields null.
func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID *graphql.ID }) (*userResolver, error) {
	if args.ID == nil {
		return nil, nil
	}
	id := string(*args.ID)
	var deleted User
	if err := r.Upstream.Delete(ctx, userPath(id), &deleted); err != nil {
		if restclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, gqlerrors.Upstream("delete user", err)
	}
	if deleted.ID == "" {
		deleted.ID = ID(id)
	}
	return &userResolver{u: &deleted, upstream: r.Upstream}, nil
}

type userUpdate struct {
	ID        graphql.ID
	FirstName *string
	Age       *int32
	CompanyID *graphql.ID
}

// merge copies the supplied optional fields onto u. The id is never
// taken from the arguments.
func (a *userUpdate) merge(u *User) {
	if a.FirstName != nil {
		u.FirstName = a.FirstName
	}
	if a.Age != nil {
		u.Age = a.Age
	}
	if a.CompanyID != nil {
		u.CompanyID = ID(*a.CompanyID)
	}
}

// UpdateUser reads the current record, merges the supplied fields and
// writes it back with PUT. A missing user is an error and nothing is
// written.
func (r *Resolver) UpdateUser(ctx context.Context, args userUpdate) (*userResolver, error) {
	id := string(args.ID)
	var current User
	if err := r.Upstream.Get(ctx, userPath(id), &current); err != nil {
		if restclient.IsNotFound(err) {
			return nil, gqlerrors.NotFound("user", id)
		}
		return nil, gqlerrors.Upstream("get user", err)
	}
	if current.ID == "" {
		current.ID = ID(id)
	}
	args.merge(&current)

	updated := current
	if err := r.Upstream.Put(ctx, userPath(id), &current, &updated); err != nil {
		return nil, gqlerrors.Upstream("update user", err)
	}
	return &userResolver{u: &updated, upstream: r.Upstream}, nil
}

func getUser(ctx context.Context, up Upstream, id string) (*userResolver, error) {
	var u User
	if err := up.Get(ctx, userPath(id), &u); err != nil {
		if restclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, gqlerrors.Upstream("get user", err)
	}
	return &userResolver{u: &u, upstream: up}, nil
}

func getCompany(ctx context.Context, up Upstream, id string) (*companyResolver, error) {
	var c Company
	if err := up.Get(ctx, companyPath(id), &c); err != nil {
		if restclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, gqlerrors.Upstream("get company", err)
	}
	return &companyResolver{c: &c, upstream: up}, nil
}

func usersOf(up Upstream, users []*User) *[]*userResolver {
	l := make([]*userResolver, len(users))
	for i, u := range users {
		l[i] = &userResolver{u: u, upstream: up}
	}
	return &l
}

type userResolver struct {
	u        *User
	upstream Upstream
}

func (r *userResolver) ID() *graphql.ID {
	if r.u.ID == "" {
		return nil
	}
	id := graphql.ID(r.u.ID)
	return &id
}

func (r *userResolver) FirstName() *string {
	return r.u.FirstName
}

func (r *userResolver) Age() *int32 {
	return r.u.Age
}

func (r *userResolver) Company(ctx context.Context) (*companyResolver, error) {
	if r.u.CompanyID == "" {
		return nil, nil
	}
	return getCompany(ctx, r.upstream, string(r.u.CompanyID))
}

type companyResolver struct {
	c        *Company
	upstream Upstream
}

func (r *companyResolver) ID() *graphql.ID {
	if r.c.ID == "" {
		return nil
	}
	id := graphql.ID(r.c.ID)
	return &id
}

func (r *companyResolver) Name() *string {
	return r.c.Name
}

func (r *companyResolver) Description() *string {
	return r.c.Description
}

func (r *companyResolver) Users(ctx context.Context) (*[]*userResolver, error) {
	if r.c.ID == "" {
		return nil, nil
	}
	var users []*User
	if err := r.upstream.Get(ctx, companyPath(string(r.c.ID))+"/users", &users); err != nil {
		return nil, gqlerrors.Upstream("list company users", err)
	}
	return usersOf(r.upstream, users), nil
}
