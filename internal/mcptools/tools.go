// Package mcptools exposes the scheme catalog, distribution totals and
// gameplan validation as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

// Catalogs returns the active scheme catalog.
type Catalogs interface {
	Catalog() *scheme.Catalog
}

// Deps are the collaborators the tools call into.
type Deps struct {
	Catalogs  Catalogs
	Validator *validation.Validator
	Calc      *distribution.Calculator
	CanModify bool
	Version   string
}

type ListSchemesArgs struct {
	Family string `json:"family,omitempty" jsonschema:"Only offensive schemes of this family (air_raid, vertical, balanced, run_heavy, option)"`
}

type GameplanArgs struct {
	Gameplan     map[string]any `json:"gameplan" jsonschema:"Flat gameplan record keyed by persisted field names"`
	LegacyNaming bool           `json:"legacy_naming,omitempty" jsonschema:"Pass fields use the legacy editor names (PassShort, PassMedium, PassPAMedium)"`
}

type schemeList struct {
	Version  string           `json:"version"`
	Offenses []scheme.Offense `json:"offenses"`
	Defenses []scheme.Defense `json:"defenses"`
}

// ToolNames lists the registered tools in registration order.
var ToolNames = []string{"list_schemes", "compute_distributions", "validate_gameplan"}

// NewServer builds an MCP server with the gameplan tools registered.
func NewServer(d Deps) *mcp.Server {
	version := d.Version
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "gameplan-mcp", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemes",
		Description: "Offensive schemes with play-type ranges, pass caps and formations, plus defensive schemes",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListSchemesArgs) (*mcp.CallToolResult, any, error) {
		cat := d.Catalogs.Catalog()
		out := schemeList{Version: cat.Version, Offenses: []scheme.Offense{}, Defenses: cat.Defenses()}
		for _, o := range cat.Offenses() {
			if args.Family == "" || o.Family.Name == args.Family {
				out.Offenses = append(out.Offenses, o)
			}
		}
		if args.Family != "" && len(out.Offenses) == 0 {
			return toolError(fmt.Errorf("unknown family %q, known families: %s",
				args.Family, strings.Join(Families(cat), ", "))), nil, nil
		}
		return toolJSON(json.Marshal(out))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute_distributions",
		Description: "Formation weights, play-type totals and distribution sums for a gameplan",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameplanArgs) (*mcp.CallToolResult, any, error) {
		g, err := decode(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.Marshal(d.Calc.Compute(g)))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_gameplan",
		Description: "Blocking errors, advisory warnings and totals for a gameplan",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameplanArgs) (*mcp.CallToolResult, any, error) {
		g, err := decode(args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.Marshal(d.Validator.Validate(g, d.CanModify)))
	})

	return server
}

// Handler serves server over streamable HTTP with plain JSON responses.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func decode(args GameplanArgs) (*gameplan.Gameplan, error) {
	if len(args.Gameplan) == 0 {
		return nil, fmt.Errorf("gameplan is required")
	}
	b, err := json.Marshal(args.Gameplan)
	if err != nil {
		return nil, err
	}
	return gameplan.DecodeRecord(b, args.LegacyNaming)
}

// Families returns the family names present in the catalog, sorted.
func Families(cat *scheme.Catalog) []string {
	seen := map[string]bool{}
	for _, o := range cat.Offenses() {
		seen[o.Family.Name] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(res)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
