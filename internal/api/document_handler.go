package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
	"github.com/lzjever/prodcat/internal/upload"
)

const (
	defaultDocumentName = "Untitled"
	defaultUploader     = "Admin"
	defaultDownloader   = "Guest"
)

type AddDocumentRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	PerformedBy string `json:"performedBy"`
}

type TrackDownloadRequest struct {
	PerformedBy string `json:"performedBy"`
}

// AddDocument attaches document metadata to a product. The file itself was
// uploaded beforehand through /api/uploads, or url is an external page.
func (a *API) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, appErr := pathID(r, "id")
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	var req AddDocumentRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	if req.Type == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "document type is required"))
		return
	}
	if req.URL == "" {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "url is required"))
		return
	}
	if core.IsURLDocumentType(req.Type) && !upload.IsRemote(req.URL) {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "url must be an absolute http(s) link for "+req.Type))
		return
	}

	if _, err := a.queries.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, core.NewAppError(core.ErrNotFound, "product not found"))
			return
		}
		a.reqLog(r).Error("get product failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to save document"))
		return
	}

	name := req.Name
	if name == "" {
		name = defaultDocumentName
	}
	uploader := req.PerformedBy
	if uploader == "" {
		uploader = defaultUploader
	}

	doc, err := a.queries.CreateDocument(ctx, store.CreateDocumentParams{
		ProductID:  productID,
		Type:       req.Type,
		Name:       name,
		Url:        req.URL,
		UploadedBy: uploader,
	})
	if err != nil {
		a.reqLog(r).Error("create document failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to save document"))
		return
	}

	a.record(r, core.ActionUpload, core.EntityDocument, doc.ID,
		map[string]any{"name": doc.Name, "productId": productID}, uploader)
	WriteJSON(w, http.StatusCreated, doc.ToCore())
}

// ListDocuments lists every document with its product, newest first.
func (a *API) ListDocuments(w http.ResponseWriter, r *http.Request) {
	rows, err := a.queries.ListDocuments(r.Context())
	if err != nil {
		a.reqLog(r).Error("list documents failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch documents"))
		return
	}
	resp := make([]core.Document, len(rows))
	for i, row := range rows {
		resp[i] = row.CatalogDocument.ToCore()
		p := row.Product.ToCore()
		resp[i].Product = &p
	}
	WriteJSON(w, http.StatusOK, resp)
}

// DeleteDocument removes a document and its stored file. Only the user who
// uploaded it may do so. Deleting an unknown document succeeds without effect.
func (a *API) DeleteDocument(w http.ResponseWriter, r *http.Request) {
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

	doc, err := a.queries.GetDocument(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteSuccess(w, nil)
		return
	}
	if err != nil {
		a.reqLog(r).Error("get document failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to delete document"))
		return
	}
	if doc.UploadedBy != "" && doc.UploadedBy != user.Username {
		WriteError(w, core.NewAppError(core.ErrForbidden, "only the user who uploaded this document can delete it"))
		return
	}

	if err := a.queries.DeleteDocument(ctx, id); err != nil {
		a.reqLog(r).Error("delete document failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to delete document"))
		return
	}
	if doc.Url != "" && !upload.IsRemote(doc.Url) {
		if err := a.files.Delete(ctx, doc.Url); err != nil {
			a.reqLog(r).Warn("remove document file failed", zap.String("url", doc.Url), zap.Error(err))
		}
	}

	a.record(r, core.ActionDelete, core.EntityDocument, id, map[string]any{"name": doc.Name}, user.Username)
	WriteSuccess(w, nil)
}

// TrackDownload counts one download of a document.
func (a *API) TrackDownload(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	var req TrackDownloadRequest
	if appErr := decodeJSON(r, &req); appErr != nil {
		WriteError(w, appErr)
		return
	}
	actor := req.PerformedBy
	if actor == "" {
		actor = defaultDownloader
	}

	doc, err := a.queries.IncrementDownloadCount(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, core.NewAppError(core.ErrNotFound, "document not found"))
		return
	}
	if err != nil {
		a.reqLog(r).Error("track download failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to track download"))
		return
	}

	a.record(r, core.ActionDownload, core.EntityDocument, doc.ID,
		map[string]any{"name": doc.Name, "count": doc.DownloadCount}, actor)
	WriteSuccess(w, map[string]interface{}{"count": doc.DownloadCount})
}
