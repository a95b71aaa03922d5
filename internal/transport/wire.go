package transport

import (
	"bytes"
	"mime/multipart"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/catalog-client/internal/domain/catalog"
)

// decodeList parses the list response: { "data": [ Product... ] }.
// Unknown top-level keys are skipped.
func decodeList(data []byte) ([]catalog.Product, error) {
	d := jx.DecodeBytes(data)
	var products []catalog.Product

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, p)
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode product list")
	}

	return products, nil
}

// decodeCreated parses the create response. The contract is a bare product
// object, but a { "data": {...} } envelope is tolerated since list uses one.
func decodeCreated(data []byte) (catalog.Product, error) {
	d := jx.DecodeBytes(data)
	var (
		p       catalog.Product
		wrapped bool
	)

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key == "data" && d.Next() == jx.Object {
			wrapped = true
			var err error
			p, err = decodeProduct(d)
			return err
		}
		if wrapped {
			return d.Skip()
		}
		return decodeProductField(d, key, &p)
	}); err != nil {
		return catalog.Product{}, errors.Wrap(err, "decode created product")
	}

	if p.ID == "" {
		return catalog.Product{}, errors.New("created product has no id")
	}
	return p, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		return decodeProductField(d, key, &p)
	})
	return p, err
}

func decodeProductField(d *jx.Decoder, key string, p *catalog.Product) error {
	switch key {
	case "id":
		// Identifiers are opaque; numeric ids are kept as their decimal
		// string form.
		if d.Next() == jx.Number {
			n, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			p.ID = n.String()
			return nil
		}
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "id")
		}
		p.ID = s
	case "name":
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "name")
		}
		p.Name = s
	case "description":
		if d.Next() == jx.Null {
			return d.Null()
		}
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "description")
		}
		p.Description = s
	case "price":
		n, err := d.Num()
		if err != nil {
			return errors.Wrap(err, "price")
		}
		price, err := decimal.NewFromString(strings.Trim(n.String(), `"`))
		if err != nil {
			return errors.Wrap(err, "price")
		}
		p.Price = price
	case "image":
		if d.Next() == jx.Null {
			return d.Null()
		}
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "image")
		}
		p.Image = s
	default:
		return d.Skip()
	}
	return nil
}

// encodeDraft builds the multipart payload for create: three text fields
// plus the mandatory binary image part.
func encodeDraft(draft catalog.Draft) (*bytes.Buffer, string, error) {
	if draft.Image == nil {
		return nil, "", errors.New("draft image is required")
	}
	return encodeForm(draft.Name, draft.Description, draft.Price, draft.Image)
}

// encodePatch builds the multipart payload for update. The image part is
// present only when a new image was selected.
func encodePatch(patch catalog.Patch) (*bytes.Buffer, string, error) {
	return encodeForm(patch.Name, patch.Description, patch.Price, patch.Image)
}

func encodeForm(name, description string, price decimal.Decimal, image *catalog.ImageUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", name},
		{"description", description},
		{"price", price.String()},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", f.name)
		}
	}

	if image != nil {
		fw, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", errors.Wrap(err, "create image part")
		}
		if _, err := fw.Write(image.Content); err != nil {
			return nil, "", errors.Wrap(err, "write image part")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finish multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}
