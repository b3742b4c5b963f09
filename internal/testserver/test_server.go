package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/okrmaster/okrd/internal/domain/project"
	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/domain/tracker"
	"github.com/okrmaster/okrd/internal/mcp"
	"github.com/okrmaster/okrd/internal/repository"
	"github.com/okrmaster/okrd/internal/sqlite"
)

// TestServer hosts a fully wired MCP server over streamable HTTP with
// API key auth enabled, backed by an in-memory database.
type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Keys   repository.APIKeyRepository
	Token  string
	UserID string
}

func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	apiKeyRepo := sqlite.NewAPIKeyRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: project.NewService(projectRepo, nil),
			Tracker:  tracker.NewService(projectRepo, nil),
			Reports:  report.NewService(projectRepo, nil),
		},
		Resolver:      &apiKeyResolver{keys: apiKeyRepo},
		AuthEnabled:   true,
		TransportMode: "http",
	})

	handler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{},
	)
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.Handle("/mcp/", handler)
	server := httptest.NewServer(mux)

	ts := &TestServer{
		Server: server,
		DB:     db,
		Keys:   apiKeyRepo,
		Token:  token,
		UserID: userID,
	}

	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, userID string) error {
	return ts.Keys.Put(context.Background(), hashToken(token), userID, "test key")
}

type apiKeyResolver struct {
	keys repository.APIKeyRepository
}

func (r *apiKeyResolver) ResolveUser(ctx context.Context, token string) (string, error) {
	userID, err := r.keys.Resolve(ctx, hashToken(token))
	if err != nil || userID == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return userID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
