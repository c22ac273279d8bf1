package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"livestock-client/internal/platform/apierr"
	"livestock-client/internal/platform/httpclient"
	"livestock-client/internal/platform/validate"
	"livestock-client/internal/store"
)

// resource implementa store.Gateway[T] contra el mapeo uniforme de verbos
// del backend:
//
//	GET    /{res}/        list (acepta query params de filtro)
//	GET    /{res}/{id}/   get
//	POST   /{res}/        create
//	PUT    /{res}/{id}/   update
//	PATCH  /{res}/{id}/   partial update
//	DELETE /{res}/{id}/   delete
type resource[T store.Entity] struct {
	hc   *httpclient.Client
	base string // p.ej. "/animals"
}

func (r *resource[T]) List(ctx context.Context, filters map[string]string) ([]T, error) {
	path := r.base + "/" + encodeQuery(filters)

	var raw json.RawMessage
	if err := r.hc.DoJSON(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, apierr.From(err)
	}
	return decodeCollection[T](raw)
}

func (r *resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := r.hc.DoJSON(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		var zero T
		return zero, apierr.From(err)
	}
	return out, nil
}

func (r *resource[T]) Create(ctx context.Context, in any) (T, error) {
	var zero T
	if err := validate.Struct(in); err != nil {
		return zero, apierr.From(err)
	}

	var out T
	if err := r.hc.DoJSON(ctx, http.MethodPost, r.base+"/", nil, in, &out); err != nil {
		return zero, apierr.From(err)
	}
	return out, nil
}

func (r *resource[T]) Update(ctx context.Context, id int64, in any) (T, error) {
	return r.write(ctx, http.MethodPut, id, in)
}

func (r *resource[T]) Patch(ctx context.Context, id int64, in any) (T, error) {
	return r.write(ctx, http.MethodPatch, id, in)
}

func (r *resource[T]) write(ctx context.Context, method string, id int64, in any) (T, error) {
	var zero T
	if err := validate.Struct(in); err != nil {
		return zero, apierr.From(err)
	}

	var out T
	if err := r.hc.DoJSON(ctx, method, r.itemPath(id), nil, in, &out); err != nil {
		return zero, apierr.From(err)
	}
	return out, nil
}

func (r *resource[T]) Delete(ctx context.Context, id int64) error {
	// Sin body esperado en la respuesta.
	if err := r.hc.DoJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil); err != nil {
		return apierr.From(err)
	}
	return nil
}

func (r *resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d/", r.base, id)
}

// decodeCollection acepta las dos formas que usan los endpoints de listado:
// el envelope {"results": [...]} o la colección a pelo.
func decodeCollection[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, apierr.Transport(fmt.Errorf("decode collection: %w", err))
		}
		return out, nil
	}

	var env struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, apierr.Transport(fmt.Errorf("decode envelope: %w", err))
	}
	if env.Results == nil {
		return []T{}, nil
	}
	return env.Results, nil
}

func encodeQuery(filters map[string]string) string {
	if len(filters) == 0 {
		return ""
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if strings.TrimSpace(k) == "" || filters[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Set(k, filters[k])
	}
	return "?" + q.Encode()
}
