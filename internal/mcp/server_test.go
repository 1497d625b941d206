package mcp

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/analyzer-lab/internal/engine"
)

func TestCreateServer(t *testing.T) {
	cfg := ServerConfig{
		Name:    "test-server",
		Version: "1.0.0",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created")
	}
}

func TestCreateServer_EmptyConfig(t *testing.T) {
	cfg := ServerConfig{}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created even with empty config")
	}
}

func TestCreateServer_WithEngine(t *testing.T) {
	cfg := ServerConfig{
		Name:            "analyzer-lab",
		Version:         "2.0.0",
		Engine:          localEngine(t),
		DefaultAnalyzer: "lucene.standard",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created with an engine")
	}
}

func localEngine(t *testing.T) engine.Engine {
	t.Helper()
	e, err := engine.NewLocalEngine()
	if err != nil {
		t.Fatalf("Failed to create local engine: %v", err)
	}
	return e
}

// connect runs server and a client over in-memory transports.
func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("Server connect failed: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })
	return clientSession
}

func TestCreateServer_ToolsRegistered(t *testing.T) {
	server := CreateServer(ServerConfig{Name: "analyzer-lab", Version: "1.0.0", Engine: localEngine(t)})
	session := connect(t, server)

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "analyze_text,list_analyzers" {
		t.Errorf("Unexpected tools: %v", names)
	}
}

func TestCreateServer_NoEngineNoTools(t *testing.T) {
	server := CreateServer(ServerConfig{Name: "analyzer-lab", Version: "1.0.0"})
	session := connect(t, server)

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(res.Tools) != 0 {
		t.Errorf("Expected no tools, got %d", len(res.Tools))
	}
}

func TestCreateServer_AnalyzeOverProtocol(t *testing.T) {
	server := CreateServer(ServerConfig{
		Name:            "analyzer-lab",
		Version:         "1.0.0",
		Engine:          localEngine(t),
		DefaultAnalyzer: "lucene.standard",
	})
	session := connect(t, server)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "analyze_text",
		Arguments: map[string]any{
			"indexText": "The quick fox",
			"queryText": "fox",
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("Unexpected tool error: %s", extractTextContent(res))
	}

	text := extractTextContent(res)
	if !strings.Contains(text, "Huzzah! 3 unique tokens were created.") {
		t.Errorf("Expected index status in output, got:\n%s", text)
	}
	if !strings.Contains(text, "**Matching tokens**: fox") {
		t.Errorf("Expected matching tokens in output, got:\n%s", text)
	}
}
