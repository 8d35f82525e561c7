package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
	"github.com/lzjever/prodcat/internal/upload"
)

// GetContent serves site assets and active products by name, from the
// content cache when it holds a copy.
func (a *API) GetContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if body, ok := a.content.Get(ctx); ok {
		writeRawJSON(w, body)
		return
	}

	assets, err := a.queries.ListSiteAssets(ctx)
	if err != nil {
		a.reqLog(r).Error("list site assets failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch content"))
		return
	}
	products, err := a.queries.ListActiveProductsByName(ctx)
	if err != nil {
		a.reqLog(r).Error("list products failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch content"))
		return
	}

	body, err := json.Marshal(store.BuildContent(assets, products))
	if err != nil {
		a.reqLog(r).Error("encode content failed", zap.Error(err))
		WriteError(w, core.NewAppError(core.ErrInternal, "failed to fetch content"))
		return
	}
	a.content.Set(ctx, body)
	writeRawJSON(w, body)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Upload stores one file from a multipart form and returns its URL. Only
// document, video and image types on the allowlist are accepted.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	if appErr := a.parseMultipart(w, r); appErr != nil {
		WriteError(w, appErr)
		return
	}
	fh := formFile(r, "file")
	if fh == nil {
		WriteError(w, core.NewAppError(core.ErrBadRequest, "file is required"))
		return
	}
	folder := r.FormValue("folder")
	if folder == "" {
		folder = upload.DefaultFolder
	}
	url, appErr := a.saveUpload(r, folder, fh)
	if appErr != nil {
		WriteError(w, appErr)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
