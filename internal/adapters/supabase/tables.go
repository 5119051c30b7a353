package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"baby-health-tracker/internal/ports/auth"
)

// Filter es un filtro horizontal de PostgREST: column=op.value
type Filter struct {
	Column string
	Op     string // eq, neq, gt, gte, lt, lte, in
	Value  string
}

func Eq(col, val string) Filter  { return Filter{Column: col, Op: "eq", Value: val} }
func Gte(col, val string) Filter { return Filter{Column: col, Op: "gte", Value: val} }
func Lte(col, val string) Filter { return Filter{Column: col, Op: "lte", Value: val} }

// In arma column=in.(a,b,c)
func In(col string, vals []string) Filter {
	return Filter{Column: col, Op: "in", Value: "(" + strings.Join(vals, ",") + ")"}
}

type Query struct {
	Filters []Filter
	Order   string // columna; vacío = orden del server
	Desc    bool
	Limit   int
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("select", "*")
	for _, f := range q.Filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		v.Set("order", q.Order+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func filterValues(filters []Filter) url.Values {
	v := url.Values{}
	for _, f := range filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	return v
}

func (c *Client) tableHeaders(returnRows bool) map[string]string {
	key := c.serviceKey
	if key == "" {
		key = c.anonKey
	}
	h := map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + key,
	}
	if returnRows {
		h["Prefer"] = "return=representation"
	}
	return h
}

func tablePath(table string, v url.Values) string {
	p := "/rest/v1/" + url.PathEscape(table)
	if len(v) > 0 {
		p += "?" + v.Encode()
	}
	return p
}

// Select decodifica en out (normalmente *[]row).
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	if !c.IsConfigured() {
		return auth.ErrNotConfigured
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, tablePath(table, q.values()), c.tableHeaders(false), nil, out); err != nil {
		return fmt.Errorf("supabase select %s: %w", table, err)
	}
	return nil
}

// Insert inserta row; si out != nil recibe las filas creadas.
func (c *Client) Insert(ctx context.Context, table string, row any, out any) error {
	if !c.IsConfigured() {
		return auth.ErrNotConfigured
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, tablePath(table, nil), c.tableHeaders(out != nil), row, out); err != nil {
		return fmt.Errorf("supabase insert %s: %w", table, err)
	}
	return nil
}

// Update aplica patch a las filas que matchean y devuelve cuántas cambiaron.
func (c *Client) Update(ctx context.Context, table string, filters []Filter, patch any) (int, error) {
	if !c.IsConfigured() {
		return 0, auth.ErrNotConfigured
	}
	var rows []json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodPatch, tablePath(table, filterValues(filters)), c.tableHeaders(true), patch, &rows); err != nil {
		return 0, fmt.Errorf("supabase update %s: %w", table, err)
	}
	return len(rows), nil
}

// Delete borra las filas que matchean y devuelve cuántas fueron.
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) (int, error) {
	if !c.IsConfigured() {
		return 0, auth.ErrNotConfigured
	}
	if len(filters) == 0 {
		// PostgREST rechaza DELETE sin filtros; lo cortamos antes.
		return 0, fmt.Errorf("supabase delete %s: filters required", table)
	}
	var rows []json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodDelete, tablePath(table, filterValues(filters)), c.tableHeaders(true), nil, &rows); err != nil {
		return 0, fmt.Errorf("supabase delete %s: %w", table, err)
	}
	return len(rows), nil
}
