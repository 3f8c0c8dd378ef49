package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Gateway is the process-wide handle on the hosted store.
type Gateway struct {
	client  *supabase.Client
	restURL string
	schema  string
	anonKey string
}

// NewGateway fails when the endpoint URL or the anon key is missing.
func NewGateway(cfg utils.SupabaseConfig) (*Gateway, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase: SUPABASE_URL is not set")
	}
	if cfg.AnonKey == "" {
		return nil, errors.New("supabase: SUPABASE_ANON_KEY is not set")
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}

	client, err := supabase.NewClient(cfg.URL, cfg.AnonKey, &supabase.ClientOptions{Schema: schema})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &Gateway{
		client:  client,
		restURL: cfg.URL + supabase.REST_URL,
		schema:  schema,
		anonKey: cfg.AnonKey,
	}, nil
}

// From starts a query on table. The bearer token carried by ctx is forwarded so the
// store evaluates row-level security as that user; without one the anon key is used.
func (g *Gateway) From(ctx context.Context, table string) *postgrest.QueryBuilder {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		return g.client.From(table)
	}

	rest := postgrest.NewClient(g.restURL, g.schema, map[string]string{
		"apikey":        g.anonKey,
		"Authorization": "Bearer " + token,
	})
	return rest.From(table)
}

func (g *Gateway) Auth() gotrue.Client {
	return g.client.Auth
}
