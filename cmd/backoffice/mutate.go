package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/backoffice/internal/console/nav"
	"github.com/aussiebroadwan/backoffice/internal/console/query"
	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
	"gopkg.in/yaml.v3"
)

// entityMutations runs the create, edit and delete dialogs of one list.
type entityMutations struct {
	route  string
	create func(ctx context.Context, c *cli, fields map[string]any) (string, error)
	update func(ctx context.Context, c *cli, id string, fields map[string]any) (string, error)
	remove func(ctx context.Context, c *cli, id string) error
}

func resourceMutations[T, In any](route string, res func(*cli) *query.Resource[T, In], id func(*T) string) entityMutations {
	return entityMutations{
		route: route,
		create: func(ctx context.Context, c *cli, fields map[string]any) (string, error) {
			in, err := decodeInput[In](fields)
			if err != nil {
				return "", err
			}
			v, err := res(c).Create(ctx, in)
			if err != nil {
				return "", err
			}
			return id(v), nil
		},
		update: func(ctx context.Context, c *cli, key string, fields map[string]any) (string, error) {
			in, err := decodeInput[In](fields)
			if err != nil {
				return "", err
			}
			v, err := res(c).Update(ctx, key, in)
			if err != nil {
				return "", err
			}
			return id(v), nil
		},
		remove: func(ctx context.Context, c *cli, key string) error {
			return res(c).Delete(ctx, key)
		},
	}
}

var mutable = map[string]entityMutations{
	"products": resourceMutations(nav.Products,
		func(c *cli) *query.Resource[crmsdk.Product, crmsdk.ProductInput] { return c.app.Hooks.Products },
		func(v *crmsdk.Product) string { return v.ID }),
	"customers": resourceMutations(nav.Customers,
		func(c *cli) *query.Resource[crmsdk.Customer, crmsdk.CustomerInput] { return c.app.Hooks.Clients },
		func(v *crmsdk.Customer) string { return v.ID }),
	"users": resourceMutations(nav.Users,
		func(c *cli) *query.Resource[crmsdk.User, crmsdk.UserInput] { return c.app.Hooks.Users },
		func(v *crmsdk.User) string { return v.ID }),
	"categories": resourceMutations(nav.Categories,
		func(c *cli) *query.Resource[crmsdk.Category, crmsdk.CategoryInput] { return c.app.Hooks.Categories },
		func(v *crmsdk.Category) string { return v.ID }),
	"models": resourceMutations(nav.Models,
		func(c *cli) *query.Resource[crmsdk.ProductModel, crmsdk.ProductModelInput] { return c.app.Hooks.Models },
		func(v *crmsdk.ProductModel) string { return v.ID }),
	"default-messages": resourceMutations(nav.DefaultMessages,
		func(c *cli) *query.Resource[crmsdk.DefaultMessage, crmsdk.DefaultMessageInput] {
			return c.app.Hooks.DefaultMessages
		},
		func(v *crmsdk.DefaultMessage) string { return v.ID }),
}

// readFields loads a YAML record whose keys are the API's field names.
func readFields(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fields, nil
}

// decodeInput maps fields onto In by its JSON names, rejecting unknown keys.
func decodeInput[In any](fields map[string]any) (In, error) {
	var in In
	raw, err := json.Marshal(fields)
	if err != nil {
		return in, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, fmt.Errorf("invalid record: %w", err)
	}
	return in, nil
}

func lookupMutable(args []string) (string, entityMutations, error) {
	if len(args) < 1 {
		return "", entityMutations{}, errors.New("expected an entity")
	}
	m, ok := mutable[args[0]]
	if !ok {
		return "", entityMutations{}, fmt.Errorf("cannot modify %q here", args[0])
	}
	return args[0], m, nil
}

func runCreate(ctx context.Context, c *cli, args []string) error {
	return runSave(ctx, c, args, false)
}

func runUpdate(ctx context.Context, c *cli, args []string) error {
	return runSave(ctx, c, args, true)
}

func runSave(ctx context.Context, c *cli, args []string, editing bool) error {
	name, m, err := lookupMutable(args)
	if err != nil {
		return err
	}

	fs := c.newFlagSet(args[0])
	id := fs.String("id", "", "Record id (update only)")
	file := fs.String("file", "", "YAML record")
	image := fs.String("image", "", "Product image to upload")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("file is required")
	}
	if editing && *id == "" {
		return errors.New("id is required")
	}
	if err := c.require(ctx, m.route); err != nil {
		return err
	}

	fields, err := readFields(*file)
	if err != nil {
		return err
	}

	if *image != "" {
		if name != "products" {
			return errors.New("only products carry an image")
		}
		if fields["image"], err = c.uploadProductImage(ctx, *image); err != nil {
			return err
		}
	}

	var saved string
	if editing {
		saved, err = m.update(ctx, c, *id, fields)
	} else {
		saved, err = m.create(ctx, c, fields)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, saved)
	return nil
}

func (c *cli) uploadProductImage(ctx context.Context, path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	resp, err := c.app.Client.UploadProductImage(ctx, filepath.Base(path), fh)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return resp.Filename, nil
}

func runDelete(ctx context.Context, c *cli, args []string) error {
	_, m, err := lookupMutable(args)
	if err != nil {
		return err
	}

	fs := c.newFlagSet("delete " + args[0])
	id := fs.String("id", "", "Record id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}
	if err := c.require(ctx, m.route); err != nil {
		return err
	}
	return m.remove(ctx, c, *id)
}
