package tradier_api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gotradier/go_src/trade_exceptions"

	"github.com/shopspring/decimal"
)

// AccessOption adjusts a single accessor call.
type AccessOption func(*accessConfig)

type accessConfig struct {
	update bool
	inner  string
}

// WithoutUpdate reads the cached document instead of fetching a fresh one.
// Use it after a first call to read several fields from one snapshot.
func WithoutUpdate() AccessOption {
	return func(c *accessConfig) { c.update = false }
}

// WithUpdate sets whether the call refreshes the document first.
func WithUpdate(update bool) AccessOption {
	return func(c *accessConfig) { c.update = update }
}

// WithInner indexes one level below the attribute.
func WithInner(key string) AccessOption {
	return func(c *accessConfig) { c.inner = key }
}

func newAccessConfig(opts []AccessOption) accessConfig {
	cfg := accessConfig{update: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// RefreshFunc fetches the latest document of a resource.
type RefreshFunc func(ctx context.Context) (Document, error)

// Accessor holds the cached document of one resource wrapper and reads named
// attributes out of it. root is the key path of the working node inside the
// document. For collection resources indexKey names the field that keys each
// element of the result.
type Accessor struct {
	refresh  RefreshFunc
	doc      Document
	root     []string
	indexKey string
}

// NewAccessor performs the initial fetch and checks that the root exists.
func NewAccessor(ctx context.Context, refresh RefreshFunc, root string) (*Accessor, error) {
	return newAccessor(ctx, refresh, root, "")
}

// NewCollectionAccessor is NewAccessor for roots holding a list of objects.
func NewCollectionAccessor(ctx context.Context, refresh RefreshFunc, root, indexKey string) (*Accessor, error) {
	return newAccessor(ctx, refresh, root, indexKey)
}

func newAccessor(ctx context.Context, refresh RefreshFunc, root, indexKey string) (*Accessor, error) {
	if refresh == nil {
		return nil, fmt.Errorf("refresh function cannot be nil")
	}
	a := &Accessor{refresh: refresh, root: strings.Split(root, "."), indexKey: indexKey}
	if err := a.Update(ctx); err != nil {
		return nil, err
	}
	if _, err := a.rootNode(); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the cached document with a fresh fetch.
func (a *Accessor) Update(ctx context.Context) error {
	doc, err := a.refresh(ctx)
	if err != nil {
		return err
	}
	a.doc = doc
	return nil
}

// Document returns the cached document as last fetched.
func (a *Accessor) Document() Document {
	return a.doc
}

// rootNode walks the root path. A null on the way is returned as nil so that
// collections can report "no results".
func (a *Accessor) rootNode() (interface{}, error) {
	var node interface{} = map[string]interface{}(a.doc)
	for i, key := range a.root {
		if isNull(node) && a.indexKey != "" {
			return nil, nil
		}
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil, &trade_exceptions.SchemaError{Key: strings.Join(a.root[:i], "."), Want: "object", Got: node}
		}
		next, ok := obj[key]
		if !ok {
			return nil, &trade_exceptions.KeyNotFoundError{Key: key, Path: strings.Join(a.root[:i], ".")}
		}
		node = next
	}
	if isNull(node) && a.indexKey != "" {
		return nil, nil
	}
	return node, nil
}

func (a *Accessor) rootPath() string {
	return strings.Join(a.root, ".")
}

// Get returns document[root][attribute], or [attribute][inner] with WithInner.
// By default it refreshes the document first.
func (a *Accessor) Get(ctx context.Context, attribute string, opts ...AccessOption) (interface{}, error) {
	cfg := newAccessConfig(opts)
	if cfg.update {
		if err := a.Update(ctx); err != nil {
			return nil, err
		}
	}
	node, err := a.rootNode()
	if err != nil {
		return nil, err
	}
	obj, ok := node.(map[string]interface{})
	if !ok {
		return nil, &trade_exceptions.SchemaError{Key: a.rootPath(), Want: "object", Got: node}
	}
	return lookupAttribute(obj, a.rootPath(), attribute, cfg.inner)
}

// GetEach returns the attribute of every element of a collection root,
// keyed by each element's index key. An empty or null collection yields an
// empty map.
func (a *Accessor) GetEach(ctx context.Context, attribute string, opts ...AccessOption) (map[string]interface{}, error) {
	if a.indexKey == "" {
		return nil, fmt.Errorf("accessor at '%s' is not a collection", a.rootPath())
	}
	cfg := newAccessConfig(opts)
	if cfg.update {
		if err := a.Update(ctx); err != nil {
			return nil, err
		}
	}
	items, err := a.items()
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(items))
	for _, item := range items {
		rawKey, ok := item[a.indexKey]
		if !ok {
			return nil, &trade_exceptions.KeyNotFoundError{Key: a.indexKey, Path: a.rootPath()}
		}
		key, err := toString(a.indexKey, rawKey)
		if err != nil {
			return nil, err
		}
		value, err := lookupAttribute(item, a.rootPath(), attribute, cfg.inner)
		if err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, nil
}

// items normalizes the collection root. The API sends a bare object instead
// of a one-element array and null (or the string "null") for no results.
func (a *Accessor) items() ([]map[string]interface{}, error) {
	node, err := a.rootNode()
	if err != nil {
		return nil, err
	}
	switch v := node.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return []map[string]interface{}{v}, nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, elem := range v {
			obj, ok := elem.(map[string]interface{})
			if !ok {
				return nil, &trade_exceptions.SchemaError{Key: a.rootPath(), Want: "array of objects", Got: elem}
			}
			out = append(out, obj)
		}
		return out, nil
	default:
		return nil, &trade_exceptions.SchemaError{Key: a.rootPath(), Want: "object or array", Got: node}
	}
}

func lookupAttribute(obj map[string]interface{}, path, attribute, inner string) (interface{}, error) {
	value, ok := obj[attribute]
	if !ok {
		return nil, &trade_exceptions.KeyNotFoundError{Key: attribute, Path: path}
	}
	if inner == "" {
		return value, nil
	}
	nested, ok := value.(map[string]interface{})
	if !ok {
		return nil, &trade_exceptions.KeyNotFoundError{Key: inner, Path: path + "." + attribute}
	}
	innerValue, ok := nested[inner]
	if !ok {
		return nil, &trade_exceptions.KeyNotFoundError{Key: inner, Path: path + "." + attribute}
	}
	return innerValue, nil
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == "null"
}

// --- Typed readers ---

func (a *Accessor) GetString(ctx context.Context, attribute string, opts ...AccessOption) (string, error) {
	v, err := a.Get(ctx, attribute, opts...)
	if err != nil {
		return "", err
	}
	return toString(attribute, v)
}

func (a *Accessor) GetDecimal(ctx context.Context, attribute string, opts ...AccessOption) (decimal.Decimal, error) {
	v, err := a.Get(ctx, attribute, opts...)
	if err != nil {
		return decimal.Zero, err
	}
	return toDecimal(attribute, v)
}

func (a *Accessor) GetInt(ctx context.Context, attribute string, opts ...AccessOption) (int64, error) {
	v, err := a.Get(ctx, attribute, opts...)
	if err != nil {
		return 0, err
	}
	return toInt(attribute, v)
}

func (a *Accessor) GetEachString(ctx context.Context, attribute string, opts ...AccessOption) (map[string]string, error) {
	raw, err := a.GetEach(ctx, attribute, opts...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := toString(attribute, v)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func (a *Accessor) GetEachDecimal(ctx context.Context, attribute string, opts ...AccessOption) (map[string]decimal.Decimal, error) {
	raw, err := a.GetEach(ctx, attribute, opts...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(raw))
	for k, v := range raw {
		d, err := toDecimal(attribute, v)
		if err != nil {
			return nil, err
		}
		out[k] = d
	}
	return out, nil
}

func (a *Accessor) GetEachInt(ctx context.Context, attribute string, opts ...AccessOption) (map[string]int64, error) {
	raw, err := a.GetEach(ctx, attribute, opts...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := toInt(attribute, v)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

func toString(key string, v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", &trade_exceptions.SchemaError{Key: key, Want: "string", Got: v}
	}
}

func toDecimal(key string, v interface{}) (decimal.Decimal, error) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, &trade_exceptions.SchemaError{Key: key, Want: "number", Got: v}
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, &trade_exceptions.SchemaError{Key: key, Want: "number", Got: v}
		}
		return d, nil
	default:
		return decimal.Zero, &trade_exceptions.SchemaError{Key: key, Want: "number", Got: v}
	}
}

func toInt(key string, v interface{}) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		// Some counters arrive as 3.0
		if f, err := t.Float64(); err == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
	}
	return 0, &trade_exceptions.SchemaError{Key: key, Want: "integer", Got: v}
}
