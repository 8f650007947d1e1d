package cache

import (
	"strings"
	"testing"
)

func TestKey_String(t *testing.T) {
	minPrice := 10.5
	var nilPrice *float64

	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "operation without params",
			key:  Key{Operation: "products_stats"},
			want: "catalog:products_stats",
		},
		{
			name: "params sorted by name",
			key: Key{
				Operation: "products_list",
				Params: map[string]any{
					"page_size": 50,
					"page":      1,
					"category":  "Books",
				},
			},
			want: "catalog:products_list:category=Books:page=1:page_size=50",
		},
		{
			name: "absent values dropped",
			key: Key{
				Operation: "products_list",
				Params: map[string]any{
					"page":      1,
					"search":    "",
					"min_price": nilPrice,
					"tags":      []string{},
					"category":  nil,
				},
			},
			want: "catalog:products_list:page=1",
		},
		{
			name: "pointer values dereferenced",
			key: Key{
				Operation: "products_list",
				Params:    map[string]any{"min_price": &minPrice},
			},
			want: "catalog:products_list:min_price=10.5",
		},
		{
			name: "whole float has no trailing zeros",
			key: Key{
				Operation: "products_list",
				Params:    map[string]any{"max_price": 100.0},
			},
			want: "catalog:products_list:max_price=100",
		},
		{
			name: "tags deduplicated and sorted",
			key: Key{
				Operation: "products_list",
				Params:    map[string]any{"tags": []string{"sale", "new", "sale"}},
			},
			want: "catalog:products_list:tags=new,sale",
		},
		{
			name: "separators in values escaped",
			key: Key{
				Operation: "products_list",
				Params:    map[string]any{"search": "a:b=c,d e"},
			},
			want: "catalog:products_list:search=a%3Ab%3Dc%2Cd+e",
		},
		{
			name: "booleans",
			key: Key{
				Operation: "products_list",
				Params:    map[string]any{"in_stock": true},
			},
			want: "catalog:products_list:in_stock=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key{
		Operation: "products_list",
		Params: map[string]any{
			"tags":     []string{"b", "a"},
			"category": "Home",
			"page":     2,
		},
	}
	b := Key{
		Operation: "products_list",
		Params: map[string]any{
			"page":     2,
			"category": "Home",
			"tags":     []string{"a", "b", "a"},
		},
	}

	for i := 0; i < 20; i++ {
		if a.String() != b.String() {
			t.Fatalf("equivalent keys differ: %q vs %q", a.String(), b.String())
		}
	}
}

func TestKey_DistinctInputsDistinctKeys(t *testing.T) {
	// "x:page=2" as a search value must not look like a separate page param
	injected := Key{Operation: "products_list", Params: map[string]any{"search": "x:page=2"}}
	plain := Key{Operation: "products_list", Params: map[string]any{"search": "x", "page": 2}}

	if injected.String() == plain.String() {
		t.Errorf("keys collide: %q", injected.String())
	}

	page1 := Key{Operation: "products_list", Params: map[string]any{"page": 1}}
	page2 := Key{Operation: "products_list", Params: map[string]any{"page": 2}}
	if page1.String() == page2.String() {
		t.Error("different pages share a key")
	}
}

func TestKey_Prefix(t *testing.T) {
	key := Key{Operation: "products_list", Params: map[string]any{"page": 1}}

	if got := key.Prefix(); got != "catalog:products_list:" {
		t.Errorf("Prefix() = %q", got)
	}
	if !strings.HasPrefix(key.String(), key.Prefix()) {
		t.Errorf("key %q does not start with its prefix", key.String())
	}

	other := Key{Operation: "products_listing", Params: map[string]any{"page": 1}}
	if strings.HasPrefix(other.String(), key.Prefix()) {
		t.Errorf("prefix %q matches another operation", key.Prefix())
	}
}
