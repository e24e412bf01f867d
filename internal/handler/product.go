package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akverma/order-management-api/internal/model"
	"github.com/akverma/order-management-api/internal/repository"
)

// maxImageSize caps product image uploads at 3 MB.
const maxImageSize = 3 << 20

// ProductStore is the catalog surface the product handlers depend on.
// *repository.ProductRepo satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (model.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ImageStore uploads and deletes product images. *storage.S3Client
// satisfies it.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

// ProductHandler bundles dependencies for the catalog endpoints.
type ProductHandler struct {
	Products ProductStore
	Images   ImageStore
	BaseURL  string // public URL prefix of uploaded image keys
}

func NewProductHandler(products ProductStore, images ImageStore, baseURL string) *ProductHandler {
	return &ProductHandler{Products: products, Images: images, BaseURL: baseURL}
}

// Create handles POST /api/products. The request is multipart form data
// with the product fields and an `image` file; the image lands in object
// storage and its public URL is stored on the document.
func (h *ProductHandler) Create(c echo.Context) error {
	imageURL, err := h.receiveImage(c)
	if err != nil {
		return nil // receiveImage already wrote the response
	}
	if imageURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image is required"})
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Price must be a non-negative value"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product name is required"})
	}
	category := c.FormValue("category")
	if !model.ValidCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	product := model.Product{
		Name:         name,
		Description:  strings.TrimSpace(c.FormValue("description")),
		Price:        price,
		Category:     category,
		Manufacturer: strings.TrimSpace(c.FormValue("manufacturer")),
		Image:        imageURL,
	}
	if err := h.Products.Create(ctx, &product); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, product)
}

// List handles GET /api/products. Open endpoint; responses are cached by
// the catalog cache middleware.
func (h *ProductHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	products, err := h.Products.FindAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error in fetching products"})
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	product, err := h.Products.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error in fetching the product"})
	}
	return c.JSON(http.StatusOK, product)
}

// Update handles PUT /api/products/:id. Fields present in the form are
// changed; a new image, when supplied, replaces the stored URL.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	fields := bson.M{}
	for _, f := range []string{"name", "description", "manufacturer"} {
		if v := strings.TrimSpace(c.FormValue(f)); v != "" {
			fields[f] = v
		}
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Price must be a non-negative value"})
		}
		fields["price"] = price
	}
	if v := c.FormValue("category"); v != "" {
		if !model.ValidCategory(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid category"})
		}
		fields["category"] = v
	}

	imageURL, err := h.receiveImage(c)
	if err != nil {
		return nil
	}
	if imageURL != "" {
		fields["image"] = imageURL
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	product, err := h.Products.Update(ctx, id, fields)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/products/:id. The stored image is removed
// from object storage before the document is deleted.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	product, err := h.Products.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	if key := h.imageKey(product.Image); key != "" {
		if err := h.Images.Delete(ctx, key); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	if err := h.Products.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// errImageRejected signals the image was refused and the response has
// already been written.
var errImageRejected = errors.New("image rejected")

// receiveImage reads the optional `image` form file, validates size and
// mimetype, uploads it and returns its public URL. An empty URL with nil
// error means no file was supplied. On failure it writes the response and
// returns errImageRejected.
func (h *ProductHandler) receiveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil // no image in the form
	}
	if fh.Size > maxImageSize {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "File is too large"})
		return "", errImageRejected
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "File must be an image"})
		return "", errImageRejected
	}

	src, err := fh.Open()
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read image"})
		return "", errImageRejected
	}
	defer src.Close()

	key := "product-images/" + uuid.NewString()[:8] + "_" + fh.Filename

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Images.Upload(ctx, key, src, contentType); err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "image upload failed"})
		return "", errImageRejected
	}
	return strings.TrimSuffix(h.BaseURL, "/") + "/" + key, nil
}

// imageKey recovers the storage key from a stored public image URL.
func (h *ProductHandler) imageKey(imageURL string) string {
	base := strings.TrimSuffix(h.BaseURL, "/") + "/"
	if !strings.HasPrefix(imageURL, base) {
		return ""
	}
	return strings.TrimPrefix(imageURL, base)
}
