// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"karwaan/internal/adapters/in/http/middleware"
	"karwaan/internal/application/usecase"
	productdom "karwaan/internal/domain/product"
)

// maxUploadBytes bounds the multipart form held in memory.
const maxUploadBytes = 32 << 20

// ProductHandler serves /products and /products/{id}.
type ProductHandler struct {
	Products *usecase.ProductUsecase
}

func NewProductHandler(products *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{Products: products}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/products")
	path = strings.Trim(path, "/")

	switch {
	case path == "" && r.Method == http.MethodPost:
		h.upload(w, r)
	case path == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case path != "" && r.Method == http.MethodGet:
		h.get(w, r, path)
	case path != "" && r.Method == http.MethodPut:
		h.update(w, r, path)
	case path != "" && r.Method == http.MethodDelete:
		h.delete(w, r, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ProductHandler) upload(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	// ownership comes from the verified token; a userId field may be sent
	// but must agree with it
	if formUID := strings.TrimSpace(r.FormValue("userId")); formUID != "" && formUID != uid {
		writeError(w, http.StatusBadRequest, "userId does not match the authenticated user")
		return
	}

	fh, err := singleFile(r.MultipartForm)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	price, err := strconv.Atoi(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	res, err := h.Products.Upload(r.Context(), usecase.UploadInput{
		OwnerID:     uid,
		Name:        r.FormValue("name"),
		Tags:        splitTags(r.FormValue("tags")),
		Price:       price,
		Description: r.FormValue("description"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	body := map[string]any{"product": toProductView(res.Product)}
	if res.Metadata != nil {
		body["metadata"] = toMetadataView(*res.Metadata)
	}
	writeSuccess(w, http.StatusCreated, "product created", body)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Products.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	views := make([]productView, 0, len(items))
	for _, p := range items {
		views = append(views, toProductView(p))
	}
	writeSuccess(w, http.StatusOK, "products fetched", views)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.Products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product fetched", toProductView(p))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var in struct {
		Name        *string   `json:"name"`
		Tags        *[]string `json:"tags"`
		Price       *int      `json:"price"`
		Description *string   `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	p, err := h.Products.Update(r.Context(), usecase.UpdateProductInput{
		ID:          id,
		Name:        in.Name,
		Tags:        in.Tags,
		Price:       in.Price,
		Description: in.Description,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product updated", toProductView(p))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Products.Delete(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product deleted", nil)
}

// singleFile enforces the exactly-one-file rule across every file field.
func singleFile(form *multipart.Form) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, productdom.ErrInvalidPayload
	}
	var files []*multipart.FileHeader
	for _, fhs := range form.File {
		files = append(files, fhs...)
	}
	if len(files) == 0 {
		return nil, productdom.ErrInvalidPayload
	}
	if len(files) > 1 {
		return nil, productdom.ErrTooManyFiles
	}
	return files[0], nil
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ============================================================
// views
// ============================================================

type productView struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Name        string     `json:"name"`
	Tags        []string   `json:"tags"`
	Price       int        `json:"price"`
	Description string     `json:"description"`
	MediaURL    *string    `json:"mediaUrl"`
	MediaType   string     `json:"mediaType"`
	MediaStatus string     `json:"mediaStatus"`
	MediaData   string     `json:"mediaData,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func toProductView(p productdom.Product) productView {
	v := productView{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Tags:        p.Tags,
		Price:       p.Price,
		Description: p.Description,
		MediaURL:    p.Media.URL,
		MediaType:   string(p.Media.Type),
		MediaStatus: string(p.Media.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	// the base64 placeholder is only useful until the object is READY
	if p.Media.Status != productdom.MediaStatusReady {
		v.MediaData = p.Media.Data
	}
	return v
}

type metadataView struct {
	ProductID string    `json:"productId"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMetadataView(m productdom.MediaMetadata) metadataView {
	return metadataView{
		ProductID: m.ProductID,
		URL:       m.URL,
		Type:      string(m.Type),
		CreatedAt: m.CreatedAt,
	}
}
