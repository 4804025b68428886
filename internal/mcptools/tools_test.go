package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xtding233/gameplan-backend/internal/distribution"
	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/gameplan/gameplantest"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

type staticCatalog struct{ cat *scheme.Catalog }

func (s staticCatalog) Catalog() *scheme.Catalog { return s.cat }

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()

	cat, err := scheme.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	calc := distribution.NewCalculator(distribution.NewCache(8))
	server := NewServer(Deps{
		Catalogs:  staticCatalog{cat: cat},
		Validator: validation.New(cat, calc),
		Calc:      calc,
		CanModify: true,
	})

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("connect server: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("%s content = %+v", name, res.Content)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("%s content type %T", name, res.Content[0])
	}
	return text.Text, res.IsError
}

func recordArg(g *gameplan.Gameplan) map[string]any {
	return map[string]any{"gameplan": g.Record()}
}

func TestListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range ToolNames {
		if !strings.Contains(strings.Join(names, ","), want) {
			t.Fatalf("tools = %v, missing %s", names, want)
		}
	}
}

func TestListSchemes(t *testing.T) {
	cs := connect(t)

	text, isErr := call(t, cs, "list_schemes", map[string]any{})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out schemeList
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Offenses) != 12 || len(out.Defenses) != 6 {
		t.Fatalf("offenses = %d defenses = %d", len(out.Offenses), len(out.Defenses))
	}

	text, isErr = call(t, cs, "list_schemes", map[string]any{"family": "air_raid"})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, o := range out.Offenses {
		if o.Family.Name != "air_raid" {
			t.Fatalf("%s has family %s", o.Name, o.Family.Name)
		}
	}

	text, isErr = call(t, cs, "list_schemes", map[string]any{"family": "wildcat"})
	if !isErr || !strings.Contains(text, "unknown family") {
		t.Fatalf("isErr = %v text = %s", isErr, text)
	}
}

func TestComputeDistributionsTool(t *testing.T) {
	cs := connect(t)
	text, isErr := call(t, cs, "compute_distributions", recordArg(gameplantest.AirRaid(4)))
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var b distribution.Bundle
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.PlayTypes.Pass != 70 || b.PlayTypes.TraditionalRun != 25 {
		t.Fatalf("play types = %+v", b.PlayTypes)
	}
}

func TestValidateGameplanTool(t *testing.T) {
	cs := connect(t)

	text, isErr := call(t, cs, "validate_gameplan", recordArg(gameplantest.WestCoast(4)))
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var res validation.Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.IsValid || !res.CanSave {
		t.Fatalf("result = %+v", res)
	}

	g := gameplantest.WestCoast(4)
	g.OffensiveScheme = "Wildcat"
	text, _ = call(t, cs, "validate_gameplan", recordArg(g))
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.IsValid || len(res.Errors) != 1 || res.Errors[0].Field != "OffensiveScheme" {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestValidateGameplanLegacyNaming(t *testing.T) {
	cs := connect(t)
	rec := gameplantest.WestCoast(4).Record()
	rec["PassShort"], rec["PassMedium"] = rec["PassQuick"], rec["PassShort"]
	delete(rec, "PassQuick")

	text, isErr := call(t, cs, "validate_gameplan", map[string]any{"gameplan": rec, "legacy_naming": true})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var res validation.Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestToolErrors(t *testing.T) {
	cs := connect(t)

	text, isErr := call(t, cs, "validate_gameplan", map[string]any{"gameplan": map[string]any{}})
	if !isErr || !strings.Contains(text, "gameplan is required") {
		t.Fatalf("isErr = %v text = %s", isErr, text)
	}
	text, isErr = call(t, cs, "compute_distributions", map[string]any{"gameplan": map[string]any{"PassQuick": "many"}})
	if !isErr || !strings.Contains(text, "PassQuick") {
		t.Fatalf("isErr = %v text = %s", isErr, text)
	}
}
