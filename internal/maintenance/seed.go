package maintenance

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/auth"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

// SystemActor is recorded for changes made by maintenance tasks.
const SystemActor = "system"

//go:embed fixtures/catalog.json
var defaultFixture []byte

type FixtureProduct struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Logo string `json:"logo"`
}

type FixtureAdmin struct {
	EmployeeName string `json:"employeeName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Username     string `json:"username"`
}

// Fixture is the seed data set.
type Fixture struct {
	Assets                 []core.SiteAsset `json:"assets"`
	PlaceholderDescription string           `json:"placeholderDescription"`
	Products               []FixtureProduct `json:"products"`
	Admin                  FixtureAdmin     `json:"admin"`
}

// DefaultFixture returns the embedded seed data.
func DefaultFixture() (Fixture, error) {
	var fx Fixture
	if err := json.Unmarshal(defaultFixture, &fx); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return fx, nil
}

type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type SeedResult struct {
	Assets          int
	ProductsRemoved int64
	ProductsCreated int
	AdminCreated    bool
}

// Seed upserts site assets, replaces the product list with the fixture and
// makes sure the admin account exists. Products that already carry documents
// are kept, and fixture products with the same name are not created again.
// An existing admin is left untouched.
func Seed(ctx context.Context, db TxBeginner, rec audit.Auditor, fx Fixture, adminPassword string) (SeedResult, error) {
	if adminPassword == "" {
		return SeedResult{}, errors.New("admin password is required to seed")
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return SeedResult{}, fmt.Errorf("hash admin password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	q := store.New(tx)

	var res SeedResult
	for _, a := range fx.Assets {
		if err := q.UpsertSiteAsset(ctx, a.Key, a.Value); err != nil {
			return SeedResult{}, fmt.Errorf("upsert asset %s: %w", a.Key, err)
		}
		res.Assets++
	}

	if res.ProductsRemoved, err = q.DeleteAllProducts(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("clear products: %w", err)
	}
	kept, err := q.ListAllProducts(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("list kept products: %w", err)
	}
	existing := make(map[string]bool, len(kept))
	for _, p := range kept {
		existing[p.Name] = true
	}
	for _, p := range fx.Products {
		if existing[p.Name] {
			continue
		}
		logo := pgtype.Text{String: p.Logo, Valid: p.Logo != ""}
		if _, err := q.CreateProduct(ctx, store.CreateProductParams{
			Name:        p.Name,
			Description: fx.PlaceholderDescription,
			Url:         p.URL,
			LogoUrl:     logo,
		}); err != nil {
			return SeedResult{}, fmt.Errorf("create product %q: %w", p.Name, err)
		}
		res.ProductsCreated++
	}

	admin, err := q.UpsertUser(ctx, store.CreateUserParams{
		EmployeeName: fx.Admin.EmployeeName,
		MobileNumber: fx.Admin.MobileNumber,
		Email:        fx.Admin.Email,
		Username:     fx.Admin.Username,
		PasswordHash: hash,
		Role:         string(core.RoleAdmin),
		UpdatedBy:    SystemActor,
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("upsert admin: %w", err)
	}
	res.AdminCreated = admin.Inserted

	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("commit: %w", err)
	}

	if res.AdminCreated {
		rec.Record(ctx, core.ActionCreate, core.EntityUser, admin.ID,
			map[string]any{"username": admin.Username, "role": admin.Role}, SystemActor)
	}
	return res, nil
}
