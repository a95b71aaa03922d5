package app

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/catalog-client/internal/domain/catalog"
	"github.com/xenking/catalog-client/internal/store"
	"github.com/xenking/catalog-client/internal/workflow"
	"github.com/xenking/catalog-client/pkg/transient"
)

// --- Mock implementations ---

type fakeAPI struct {
	products []catalog.Product
	serial   int
}

func (f *fakeAPI) ListAll(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, draft catalog.Draft) (catalog.Product, error) {
	f.serial++
	p := catalog.Product{
		ID:          "p" + string(rune('0'+f.serial)),
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		Image:       "https://cdn.example.com/" + draft.Image.Filename,
	}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, patch catalog.Patch) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name = patch.Name
			f.products[i].Description = patch.Description
			f.products[i].Price = patch.Price
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeAPI) Remove(_ context.Context, id string) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

// --- Helpers ---

func newTestConsole(t *testing.T, api *fakeAPI) (*console, *strings.Builder, *store.Store) {
	t.Helper()

	st := store.New(api, zap.NewNop())
	status := transient.NewSlot(transient.DefaultTTL)
	t.Cleanup(status.Stop)
	wf := workflow.New(api, st, catalog.NewEditor(), status, zap.NewNop())
	require.NoError(t, wf.Refresh(context.Background()))

	var out strings.Builder
	return newConsole(wf, st, strings.NewReader(""), &out, zap.NewNop()), &out, st
}

func stubImageRead(t *testing.T) {
	t.Helper()
	prev := readFile
	readFile = func(path string) (*catalog.ImageUpload, error) {
		return &catalog.ImageUpload{Filename: path, Content: []byte("png")}, nil
	}
	t.Cleanup(func() { readFile = prev })
}

// --- Tests ---

func TestDispatch_Add(t *testing.T) {
	stubImageRead(t)
	api := &fakeAPI{}
	c, _, st := newTestConsole(t, api)

	quit, err := c.dispatch(context.Background(), "add Lamp | Desk lamp | 19.99 | lamp.png")
	require.NoError(t, err)
	assert.False(t, quit)

	require.Equal(t, 1, st.Len())
	got := st.Products()[0]
	assert.Equal(t, "Lamp", got.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
}

func TestDispatch_AddUsage(t *testing.T) {
	c, _, _ := newTestConsole(t, &fakeAPI{})

	_, err := c.dispatch(context.Background(), "add Lamp | 19.99")
	require.Error(t, err)

	_, err = c.dispatch(context.Background(), "add Lamp | Desk lamp | not-a-price | lamp.png")
	require.Error(t, err)
}

func TestDispatch_EditSetSave(t *testing.T) {
	api := &fakeAPI{products: []catalog.Product{{
		ID:    "p1",
		Name:  "Lamp",
		Price: decimal.RequireFromString("19.99"),
	}}, serial: 1}
	c, _, st := newTestConsole(t, api)

	for _, line := range []string{
		"edit p1",
		"set name Floor lamp",
		"set price 24.99",
		"save",
	} {
		_, err := c.dispatch(context.Background(), line)
		require.NoError(t, err, line)
	}

	got, ok := st.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Floor lamp", got.Name)
	assert.True(t, decimal.RequireFromString("24.99").Equal(got.Price))
}

func TestDispatch_SetWithoutEdit(t *testing.T) {
	c, _, _ := newTestConsole(t, &fakeAPI{})
	_, err := c.dispatch(context.Background(), "set name Lamp")
	require.ErrorIs(t, err, workflow.ErrNoActiveEdit)
}

func TestDispatch_Delete(t *testing.T) {
	api := &fakeAPI{products: []catalog.Product{{ID: "p1", Name: "Lamp"}}, serial: 1}
	c, _, st := newTestConsole(t, api)

	_, err := c.dispatch(context.Background(), "delete p1")
	require.NoError(t, err)
	assert.Zero(t, st.Len())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	c, _, _ := newTestConsole(t, &fakeAPI{})
	_, err := c.dispatch(context.Background(), "frobnicate")
	require.Error(t, err)
}

func TestDispatch_Quit(t *testing.T) {
	c, _, _ := newTestConsole(t, &fakeAPI{})
	quit, err := c.dispatch(context.Background(), "quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestDispatch_ListRendersCatalog(t *testing.T) {
	api := &fakeAPI{products: []catalog.Product{{
		ID:    "p1",
		Name:  "Lamp",
		Price: decimal.RequireFromString("19.99"),
		Image: "https://cdn.example.com/p1.png",
	}}, serial: 1}
	c, out, _ := newTestConsole(t, api)

	_, err := c.dispatch(context.Background(), "list")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Lamp")
	assert.Contains(t, out.String(), "$19.99")
}
