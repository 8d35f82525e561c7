package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/auth"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
	"github.com/lzjever/prodcat/internal/upload"
)

const logoFolder = "images/logos"

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ReorderItem struct {
	ID           int64 `json:"id"`
	DisplayOrder int32 `json:"displayOrder"`
}

type ReorderRequest struct {
	Items    []ReorderItem `json:"items"`
	Username string        `json:"username"`
}

// ListProducts lists active products with their documents.
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := a.queries.ListActiveProducts(ctx)
	if err != nil {
		a.reqLog(r).Error("list products failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch products"))
		return
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	docs, err := a.queries.ListDocumentsByProducts(ctx, ids)
	if err != nil {
		a.reqLog(r).Error("list product documents failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch products"))
		return
	}
	WriteJSON(w, http.StatusOK, store.ProductsWithDocuments(products, docs))
}

// CreateProduct creates a product from a multipart form with an optional logo.
func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if appErr := a.parseMultipart(w, r); appErr != nil {
		WriteError(w, appErr)
		return
	}
	name := r.FormValue("name")
	if name == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "name is required"))
		return
	}

	var logo pgtype.Text
	if fh := formFile(r, "logoFile"); fh != nil {
		url, appErr := a.saveUpload(r, logoFolder, fh)
		if appErr != nil {
			WriteError(w, appErr)
			return
		}
		logo = pgtype.Text{String: url, Valid: true}
	}

	p, err := a.queries.CreateProduct(ctx, store.CreateProductParams{
		Name:        name,
		Description: r.FormValue("description"),
		Url:         r.FormValue("url"),
		LogoUrl:     logo,
	})
	if err != nil {
		a.discardUpload(r, logo)
		a.reqLog(r).Error("create product failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to create product"))
		return
	}

	a.record(r, core.ActionCreate, core.EntityProduct, p.ID, map[string]any{"name": p.Name}, r.FormValue("performedBy"))
	a.invalidateContent(ctx)
	WriteJSON(w, http.StatusCreated, p.ToCore())
}

// UpdateProduct updates the fields present in the form. A new logo replaces
// the old URL; the old file is kept.
func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, appErr := pathID(r, "id")
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	if appErr := a.parseMultipart(w, r); appErr != nil {
		WriteError(w, appErr)
		return
	}

	existing, err := a.queries.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, core.NewAppError(core.ErrNotFound, "product not found"))
		return
	}
	if err != nil {
		a.reqLog(r).Error("get product failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to update product"))
		return
	}

	params := store.UpdateProductParams{
		ID:          id,
		Name:        formValueOr(r, "name", existing.Name),
		Description: formValueOr(r, "description", existing.Description),
		Url:         formValueOr(r, "url", existing.Url),
	}
	if params.Name == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "name cannot be empty"))
		return
	}
	details := map[string]any{
		"name":        params.Name,
		"description": params.Description,
		"url":         params.Url,
	}
	if fh := formFile(r, "logoFile"); fh != nil {
		url, appErr := a.saveUpload(r, logoFolder, fh)
		if appErr != nil {
			WriteError(w, appErr)
			return
		}
		params.LogoUrl = pgtype.Text{String: url, Valid: true}
		details["logoUrl"] = url
	}

	p, err := a.queries.UpdateProduct(ctx, params)
	if err != nil {
		a.discardUpload(r, params.LogoUrl)
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, core.NewAppError(core.ErrNotFound, "product not found"))
			return
		}
		a.reqLog(r).Error("update product failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to update product"))
		return
	}

	a.record(r, core.ActionUpdate, core.EntityProduct, p.ID, details, r.FormValue("performedBy"))
	a.invalidateContent(ctx)
	WriteJSON(w, http.StatusOK, p.ToCore())
}

// DeleteProduct hides a product after checking the caller's credentials.
// Only admins may do this. Files and documents are kept. Deleting an unknown
// product succeeds without effect.
func (a *API) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, appErr := pathID(r, "id")
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	var req CredentialsRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	user, appErr := a.verifyCredentials(r, req.Username, req.Password)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	if core.Role(user.Role) != core.RoleAdmin {
		WriteError(w, core.NewAppError(core.ErrForbidden, "only admins can delete products"))
		return
	}

	p, err := a.queries.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteSuccess(w, nil)
		return
	}
	if err == nil {
		err = a.queries.SoftDeleteProduct(ctx, id)
	}
	if err != nil {
		a.reqLog(r).Error("delete product failed", zap.Int64("product_id", id), zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to delete product"))
		return
	}

	a.record(r, core.ActionDelete, core.EntityProduct, id,
		map[string]any{"name": p.Name, "type": "SOFT_DELETE"}, user.Username)
	a.invalidateContent(ctx)
	WriteSuccess(w, nil)
}

// ReorderProducts sets display order for many products in one transaction.
func (a *API) ReorderProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ReorderRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Items == nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "items must be an array"))
		return
	}

	err := a.inTx(ctx, func(q Store) error {
		for _, item := range req.Items {
			if err := q.SetProductDisplayOrder(ctx, store.SetProductDisplayOrderParams{
				ID:           item.ID,
				DisplayOrder: item.DisplayOrder,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, core.NewAppError(core.ErrNotFound, "unknown product in items"))
		return
	}
	if err != nil {
		a.reqLog(r).Error("reorder products failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to reorder products"))
		return
	}

	if req.Username != "" {
		a.record(r, core.ActionUpdate, core.EntityProduct, 0,
			map[string]any{"type": "REORDER", "count": len(req.Items)}, req.Username)
	}
	a.invalidateContent(ctx)
	WriteSuccess(w, nil)
}

// verifyCredentials checks a username and password supplied with a
// destructive request.
func (a *API) verifyCredentials(r *http.Request, username, password string) (store.CatalogUser, *core.AppError) {
	if username == "" {
		return store.CatalogUser{}, core.NewAppError(core.ErrBadRequest, "username required")
	}
	user, err := a.queries.GetUserByUsername(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		return store.CatalogUser{}, core.NewAppError(core.ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		a.reqLog(r).Error("get user failed", zap.Error(err))
		return store.CatalogUser{}, core.NewAppError(core.ErrInternal, "failed to verify credentials")
	}
	if auth.CheckPassword(user.PasswordHash, password) != nil {
		return store.CatalogUser{}, core.NewAppError(core.ErrUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return store.CatalogUser{}, core.NewAppError(core.ErrForbidden, "account is inactive")
	}
	return user, nil
}

// parseMultipart parses a multipart form, bounded by the upload size limit.
func (a *API) parseMultipart(w http.ResponseWriter, r *http.Request) *core.AppError {
	if a.cfg.UploadMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.cfg.UploadMaxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.NewAppError(core.ErrPayloadTooLarge, "upload too large")
		}
		return core.NewAppError(core.ErrBadRequest, "expected multipart form data")
	}
	return nil
}

const multipartMemory = 8 << 20

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if files := r.MultipartForm.File[field]; len(files) > 0 {
		return files[0]
	}
	return nil
}

// formValueOr returns the form value when the field was sent, else def.
func formValueOr(r *http.Request, field, def string) string {
	if r.MultipartForm != nil {
		if v, ok := r.MultipartForm.Value[field]; ok && len(v) > 0 {
			return v[0]
		}
	}
	return def
}

// saveUpload stores an uploaded file after checking its content type.
func (a *API) saveUpload(r *http.Request, folder string, fh *multipart.FileHeader) (string, *core.AppError) {
	if !upload.AllowedContentType(fh.Header.Get("Content-Type")) {
		return "", core.NewAppError(core.ErrUnsupportedMedia, "file type not allowed")
	}
	f, err := fh.Open()
	if err != nil {
		return "", core.NewAppError(core.ErrBadRequest, "unreadable file")
	}
	defer f.Close()

	url, err := a.files.Save(r.Context(), folder, fh.Filename, f)
	if errors.Is(err, upload.ErrUnsafePath) {
		return "", core.NewAppError(core.ErrBadRequest, "invalid folder")
	}
	if err != nil {
		a.reqLog(r).Error("save upload failed", zap.Error(err))
		return "", core.NewAppError(core.ErrInternal, "failed to store file")
	}
	return url, nil
}

// discardUpload removes a file saved for a write that then failed.
func (a *API) discardUpload(r *http.Request, url pgtype.Text) {
	if !url.Valid {
		return
	}
	if err := a.files.Delete(r.Context(), url.String); err != nil {
		a.reqLog(r).Warn("remove orphaned upload failed", zap.String("url", url.String), zap.Error(err))
	}
}
