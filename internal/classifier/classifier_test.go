package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"api-scaffolder/internal/catalog"
	"api-scaffolder/internal/types"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"braces removed", "{itemId}", "itemId"},
		{"dashes to underscore", "order-items", "order_items"},
		{"dots to underscore", "v1.2", "v1_2"},
		{"spaces to underscore", "my name", "my_name"},
		{"mixed", "{order-id}.ext", "order_id_ext"},
		{"untouched", "plain_name", "plain_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanName(tt.in)
			if got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Sanitizing twice must not change the result
			if again := CleanName(got); again != got {
				t.Errorf("CleanName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		record      types.EndpointRecord
		wantService string
		wantTitle   string
		wantEpName  string
	}{
		{
			name:        "root endpoint",
			key:         "POST /items",
			record:      types.EndpointRecord{Path: "/items", Source: types.SourceInfo{Title: "Shop"}},
			wantService: "items",
			wantTitle:   "shop",
			wantEpName:  "root",
		},
		{
			name:        "dynamic segment",
			key:         "GET /items/{itemId}",
			record:      types.EndpointRecord{Path: "/items/{itemId}", Source: types.SourceInfo{Title: "Shop"}},
			wantService: "items",
			wantTitle:   "shop",
			wantEpName:  "itemId",
		},
		{
			name:        "users profile collapses",
			key:         "GET /users/profile/settings",
			record:      types.EndpointRecord{Path: "/users/profile/settings", Source: types.SourceInfo{Title: "Shop"}},
			wantService: "profile",
			wantTitle:   "shop",
			wantEpName:  "settings",
		},
		{
			name:        "missing title defaults",
			key:         "GET /items",
			record:      types.EndpointRecord{Path: "/items"},
			wantService: "items",
			wantTitle:   "common",
			wantEpName:  "root",
		},
		{
			name:        "path derived from key",
			key:         "GET /orders/history",
			record:      types.EndpointRecord{Source: types.SourceInfo{Title: "Shop"}},
			wantService: "orders",
			wantTitle:   "shop",
			wantEpName:  "history",
		},
		{
			name:        "dashes in segments",
			key:         "GET /order-items/by-date",
			record:      types.EndpointRecord{Path: "/order-items/by-date", Source: types.SourceInfo{Title: "Shop API"}},
			wantService: "order_items",
			wantTitle:   "shop_api",
			wantEpName:  "by_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, title, name := Classify(tt.key, tt.record)
			assert.Equal(t, tt.wantService, service)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantEpName, name)
		})
	}
}

func TestGroupByService(t *testing.T) {
	cat := &catalog.Catalog{Entries: []catalog.Entry{
		{Key: "POST /items", Record: types.EndpointRecord{Path: "/items", Method: "POST", Source: types.SourceInfo{Title: "shop"}}},
		{Key: "GET /orders", Record: types.EndpointRecord{Path: "/orders", Method: "GET", Source: types.SourceInfo{Title: "shop"}}},
		{Key: "GET /items/{itemId}", Record: types.EndpointRecord{
			Path:   "/items/{itemId}",
			Method: "GET",
			Parameters: []types.ParameterSpec{
				{Name: "itemId", Location: "path", Required: true},
			},
			Source: types.SourceInfo{Title: "shop"},
		}},
	}}

	services := GroupByService(cat)
	assert.Len(t, services, 2)

	// First-seen order: items before orders
	assert.Equal(t, "items", services[0].Name)
	assert.Equal(t, "orders", services[1].Name)
	assert.Len(t, services[0].Endpoints, 2)

	get := services[0].Endpoints[1]
	assert.Equal(t, "itemId", get.Name)
	assert.Equal(t, []string{"itemId"}, get.PathParams)
}

func TestEndpointTestName(t *testing.T) {
	tests := []struct {
		name    string
		service string
		ep      *Endpoint
		want    string
	}{
		{"root endpoint", "items", &Endpoint{Method: "POST", Name: "root"}, "test_post_items_default"},
		{"name equals service", "items", &Endpoint{Method: "GET", Name: "items"}, "test_get_items_default"},
		{"named endpoint", "items", &Endpoint{Method: "POST", Name: "bulk"}, "test_post_items_bulk_default"},
		{"parameterized endpoint", "items", &Endpoint{Method: "DELETE", Name: "itemId", PathParams: []string{"itemId"}}, "test_delete_items_itemId_id_default"},
		{"parameterized creation", "orders", &Endpoint{Method: "POST", Name: "draftId", PathParams: []string{"draftId"}}, "test_post_orders_draftId_id_default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ep.TestName(tt.service))
		})
	}
}

func TestPathParameterSet(t *testing.T) {
	svc := &Service{
		Name: "items",
		Endpoints: []*Endpoint{
			{Method: "POST", PathParams: []string{"ignoredId"}},
			{Method: "GET", PathParams: []string{"itemId"}},
			{Method: "DELETE", PathParams: []string{"itemId", "versionId"}},
		},
	}

	params := svc.PathParameterSet()
	assert.Equal(t, []string{"itemId", "versionId"}, params)
}

func TestTitles(t *testing.T) {
	services := []*Service{
		{Name: "items", Title: "shop"},
		{Name: "orders", Title: "shop"},
		{Name: "users", Title: "accounts"},
	}
	assert.Equal(t, []string{"shop", "accounts"}, Titles(services))
}
