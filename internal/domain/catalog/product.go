package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents one catalog listing as confirmed by the catalog
// service. A Product always carries a server-assigned ID; drafts that have
// not been submitted yet are represented by Draft instead.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}

// ImageUpload holds locally selected binary image data pending upload.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// Draft is a product under construction. It has no ID until the catalog
// service confirms creation. All fields are required for submission; see
// Validate.
type Draft struct {
	Name        string          `form:"name" validate:"required"`
	Description string          `form:"description" validate:"required"`
	Price       decimal.Decimal `form:"price" validate:"gte=0"`
	Image       *ImageUpload    `form:"image" validate:"required"`
}

// Patch carries the fields sent when saving an edited product. Name,
// Description and Price are always sent; Image is sent only when the user
// selected a new file (nil means the service keeps the stored image).
type Patch struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       *ImageUpload
}

// API defines the operations the remote catalog service exposes. The
// transport package provides the HTTP implementation.
type API interface {
	ListAll(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, draft Draft) (Product, error)
	Update(ctx context.Context, id string, patch Patch) error
	Remove(ctx context.Context, id string) error
}
