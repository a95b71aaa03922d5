package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/catalog-client/internal/domain/catalog"
	"github.com/xenking/catalog-client/internal/store"
	"github.com/xenking/catalog-client/internal/workflow"
)

// readFile is swapped in tests to avoid touching the filesystem.
var readFile = defaultReadFile

// console is the interactive presentation stand-in: it parses commands,
// invokes workflow flows, and renders their outcomes. All catalog logic
// lives below it.
type console struct {
	wf  *workflow.Workflow
	st  *store.Store
	in  io.Reader
	out io.Writer
	lg  *zap.Logger
}

func newConsole(wf *workflow.Workflow, st *store.Store, in io.Reader, out io.Writer, lg *zap.Logger) *console {
	return &console{wf: wf, st: st, in: in, out: out, lg: lg}
}

// run reads commands until EOF, "quit", or context cancellation. Input is
// pumped through a channel so the loop can observe ctx while a read blocks.
func (c *console) run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.printf("catalog session ready; type 'help' for commands\n")
	for {
		c.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.dispatch(ctx, strings.TrimSpace(line))
			if err != nil {
				c.lg.Debug("Command failed", zap.Error(err))
				c.printf("error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func (c *console) dispatch(ctx context.Context, line string) (quit bool, err error) {
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help":
		c.printHelp()
	case "list":
		c.printProducts()
	case "refresh":
		if err := c.wf.Refresh(ctx); err != nil {
			return false, err
		}
		c.printProducts()
	case "add":
		return false, c.add(ctx, rest)
	case "edit":
		if rest == "" {
			return false, errors.New("usage: edit <id>")
		}
		_, err := c.wf.BeginEdit(rest)
		if err != nil {
			return false, err
		}
		c.printf("editing %s; use 'set <field> <value>' then 'save'\n", rest)
	case "set":
		return false, c.set(rest)
	case "save":
		if err := c.wf.SaveEdit(ctx); err != nil {
			return false, err
		}
	case "cancel":
		c.wf.CancelEdit()
	case "delete":
		if rest == "" {
			return false, errors.New("usage: delete <id>")
		}
		return false, c.wf.Delete(ctx, rest)
	case "status":
		// prompt() already renders it; nothing extra to do.
	case "quit", "exit":
		return true, nil
	default:
		return false, errors.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

// add parses "name | description | price | image-path" and submits it.
func (c *console) add(ctx context.Context, args string) error {
	parts := strings.Split(args, "|")
	if len(parts) != 4 {
		return errors.New("usage: add <name> | <description> | <price> | <image-path>")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	price, err := decimal.NewFromString(parts[2])
	if err != nil {
		return errors.Wrap(err, "parse price")
	}
	image, err := readFile(parts[3])
	if err != nil {
		return errors.Wrap(err, "read image")
	}

	_, err = c.wf.SubmitNew(ctx, catalog.Draft{
		Name:        parts[0],
		Description: parts[1],
		Price:       price,
		Image:       image,
	})
	return err
}

// set changes one field of the open edit session.
func (c *console) set(args string) error {
	sess, ok := c.wf.Editing()
	if !ok {
		return workflow.ErrNoActiveEdit
	}

	field, value, found := strings.Cut(args, " ")
	if !found && field != "image" {
		return errors.New("usage: set <name|description|price|image> <value>")
	}
	value = strings.TrimSpace(value)

	switch field {
	case "name":
		sess.SetName(value)
	case "description":
		sess.SetDescription(value)
	case "price":
		price, err := decimal.NewFromString(value)
		if err != nil {
			return errors.Wrap(err, "parse price")
		}
		sess.SetPrice(price)
	case "image":
		if value == "" {
			sess.AttachImage(nil)
			return nil
		}
		image, err := readFile(value)
		if err != nil {
			return errors.Wrap(err, "read image")
		}
		sess.AttachImage(image)
	default:
		return errors.Errorf("unknown field %q", field)
	}
	return nil
}

func (c *console) printProducts() {
	products := c.st.Products()
	if len(products) == 0 {
		c.printf("catalog is empty\n")
		return
	}
	for _, p := range products {
		c.printf("%s  %-20s  $%s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Image)
	}
}

// prompt renders the transient status line, if one is visible, before the
// input marker.
func (c *console) prompt() {
	if msg, ok := c.wf.Status(); ok {
		c.printf("[%s]\n", msg)
	}
	c.printf("> ")
}

func (c *console) printHelp() {
	c.printf(`commands:
  list                                      show the current catalog
  refresh                                   re-fetch the catalog
  add <name> | <desc> | <price> | <image>   create a listing
  edit <id>                                 start editing a listing
  set <field> <value>                       change a field of the edit
  save                                      commit the edit
  cancel                                    discard the edit
  delete <id>                               remove a listing
  quit                                      end the session
`)
}

func (c *console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func defaultReadFile(path string) (*catalog.ImageUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &catalog.ImageUpload{
		Filename: filepath.Base(path),
		Content:  content,
	}, nil
}
