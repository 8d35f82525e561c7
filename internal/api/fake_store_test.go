package api

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lzjever/prodcat/internal/store"
)

// fakeStore is an in-memory Store. It is safe for concurrent use.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]store.CatalogProduct
	docs     map[int64]store.CatalogDocument
	users    map[int64]store.CatalogUser
	assets   []store.CatalogSiteAsset
	logs     []store.CatalogAuditLog
	logsErr  error
	since    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[int64]store.CatalogProduct{},
		docs:     map[int64]store.CatalogDocument{},
		users:    map[int64]store.CatalogUser{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func ts(t time.Time) pgtype.Timestamptz { return pgtype.Timestamptz{Time: t, Valid: true} }

func (f *fakeStore) addProduct(p store.CatalogProduct) store.CatalogProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.id()
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) addDocument(d store.CatalogDocument) store.CatalogDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == 0 {
		d.ID = f.id()
	}
	f.docs[d.ID] = d
	return d
}

func (f *fakeStore) addUser(u store.CatalogUser) store.CatalogUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.id()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) product(id int64) store.CatalogProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

func (f *fakeStore) sortedProducts(activeOnly bool, less func(a, b store.CatalogProduct) bool) []store.CatalogProduct {
	var out []store.CatalogProduct
	for _, p := range f.products {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (f *fakeStore) ListActiveProducts(context.Context) ([]store.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedProducts(true, func(a, b store.CatalogProduct) bool {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.Name < b.Name
	}), nil
}

func (f *fakeStore) ListActiveProductsByName(context.Context) ([]store.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedProducts(true, func(a, b store.CatalogProduct) bool { return a.Name < b.Name }), nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (store.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return store.CatalogProduct{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, arg store.CreateProductParams) (store.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := store.CatalogProduct{
		ID: f.id(), Name: arg.Name, Description: arg.Description, Url: arg.Url, LogoUrl: arg.LogoUrl,
		IsActive: true, CreatedAt: ts(time.Now()), UpdatedAt: ts(time.Now()),
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, arg store.UpdateProductParams) (store.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[arg.ID]
	if !ok {
		return store.CatalogProduct{}, store.ErrNotFound
	}
	p.Name, p.Description, p.Url = arg.Name, arg.Description, arg.Url
	if arg.LogoUrl.Valid {
		p.LogoUrl = arg.LogoUrl
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) SoftDeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.IsActive = false
	f.products[id] = p
	return nil
}

func (f *fakeStore) SetProductDisplayOrder(_ context.Context, arg store.SetProductDisplayOrderParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[arg.ID]
	if !ok {
		return store.ErrNotFound
	}
	p.DisplayOrder = arg.DisplayOrder
	f.products[p.ID] = p
	return nil
}

func (f *fakeStore) ListDocumentsByProducts(_ context.Context, ids []int64) ([]store.CatalogDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []store.CatalogDocument
	for _, d := range f.docs {
		if want[d.ProductID] {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListDocuments(context.Context) ([]store.ListDocumentsRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.ListDocumentsRow
	for _, d := range f.docs {
		out = append(out, store.ListDocumentsRow{CatalogDocument: d, Product: f.products[d.ProductID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetDocument(_ context.Context, id int64) (store.CatalogDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return store.CatalogDocument{}, store.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) CreateDocument(_ context.Context, arg store.CreateDocumentParams) (store.CatalogDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := store.CatalogDocument{
		ID: f.id(), ProductID: arg.ProductID, Type: arg.Type, Name: arg.Name, Url: arg.Url,
		UploadedBy: arg.UploadedBy, CreatedAt: ts(time.Now()),
	}
	f.docs[d.ID] = d
	return d, nil
}

func (f *fakeStore) DeleteDocument(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeStore) IncrementDownloadCount(_ context.Context, id int64) (store.CatalogDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return store.CatalogDocument{}, store.ErrNotFound
	}
	d.DownloadCount++
	f.docs[id] = d
	return d, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]store.CatalogUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.CatalogUser
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (store.CatalogUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.CatalogUser{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (store.CatalogUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return store.CatalogUser{}, store.ErrNotFound
}

var errUnique = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

func (f *fakeStore) conflicts(id int64, username, email string) bool {
	for _, u := range f.users {
		if u.ID != id && (u.Username == username || u.Email == email) {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateUser(_ context.Context, arg store.CreateUserParams) (store.CatalogUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts(0, arg.Username, arg.Email) {
		return store.CatalogUser{}, errUnique
	}
	u := store.CatalogUser{
		ID: f.id(), EmployeeName: arg.EmployeeName, MobileNumber: arg.MobileNumber, Email: arg.Email,
		Username: arg.Username, PasswordHash: arg.PasswordHash, Role: arg.Role, IsActive: true,
		UpdatedBy: arg.UpdatedBy, CreatedAt: ts(time.Now()), UpdatedAt: ts(time.Now()),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, arg store.UpdateUserParams) (store.CatalogUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[arg.ID]
	if !ok {
		return store.CatalogUser{}, store.ErrNotFound
	}
	set := func(dst *string, v pgtype.Text) {
		if v.Valid {
			*dst = v.String
		}
	}
	set(&u.EmployeeName, arg.EmployeeName)
	set(&u.MobileNumber, arg.MobileNumber)
	set(&u.Email, arg.Email)
	set(&u.Username, arg.Username)
	set(&u.Role, arg.Role)
	set(&u.PasswordHash, arg.PasswordHash)
	if arg.IsActive.Valid {
		u.IsActive = arg.IsActive.Bool
	}
	u.UpdatedBy = arg.UpdatedBy
	if f.conflicts(u.ID, u.Username, u.Email) {
		return store.CatalogUser{}, errUnique
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) ListSiteAssets(context.Context) ([]store.CatalogSiteAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assets, nil
}

func (f *fakeStore) ListAuditLogsSince(_ context.Context, since time.Time) ([]store.CatalogAuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = since
	var out []store.CatalogAuditLog
	for _, l := range f.logs {
		if !l.Timestamp.Time.Before(since) {
			out = append(out, l)
		}
	}
	return out, f.logsErr
}

// inTx runs fn and restores product rows if it fails.
func (f *fakeStore) inTx(ctx context.Context, fn func(Store) error) error {
	f.mu.Lock()
	snapshot := make(map[int64]store.CatalogProduct, len(f.products))
	for k, v := range f.products {
		snapshot[k] = v
	}
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.products = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

var errPing = errors.New("connection refused")

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
