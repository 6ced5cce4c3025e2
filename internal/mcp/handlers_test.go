package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/rci/internal/config"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	cfg := config.Default(root)
	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func callTool(t *testing.T, handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), params interface{}) map[string]interface{} {
	t.Helper()
	args, err := json.Marshal(params)
	require.NoError(t, err)

	result, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{
		Arguments: args,
	}})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	if result.IsError {
		payload["_isError"] = true
	}
	return payload
}

func TestHandleAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "App.tsx")
	require.NoError(t, os.WriteFile(path, []byte(`
import React, { useState } from 'react';

export function App() {
  const [count, setCount] = useState(0);
  return <div>{count}</div>;
}
`), 0o644))

	s := newTestServer(t, dir)
	payload := callTool(t, s.handleAnalyzeFile, AnalyzeFileParams{Path: path})

	assert.Equal(t, true, payload["success"])
	result, ok := payload["result"].(map[string]interface{})
	require.True(t, ok)

	components, ok := result["components"].([]interface{})
	require.True(t, ok)
	require.Len(t, components, 1)
	assert.Equal(t, "App", components[0].(map[string]interface{})["name"])
}

func TestHandleAnalyzeFileKindsFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.ts")
	require.NoError(t, os.WriteFile(path, []byte(`
import { thing } from './thing';
export const double = (n: number) => n * 2;
`), 0o644))

	s := newTestServer(t, dir)
	payload := callTool(t, s.handleAnalyzeFile, AnalyzeFileParams{Path: path, Kinds: "imports, fn"})

	result := payload["result"].(map[string]interface{})
	assert.Contains(t, result, "imports")
	assert.Contains(t, result, "functions")
	assert.NotContains(t, result, "hooks")
	assert.NotContains(t, result, "complexity")
}

func TestHandleAnalyzeFileMissingPath(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	payload := callTool(t, s.handleAnalyzeFile, AnalyzeFileParams{})

	assert.Equal(t, false, payload["success"])
	assert.Equal(t, true, payload["_isError"])
}

func TestHandleAnalyzeFileParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ts")
	require.NoError(t, os.WriteFile(path, []byte(`function ( { if`), 0o644))

	s := newTestServer(t, dir)
	payload := callTool(t, s.handleAnalyzeFile, AnalyzeFileParams{Path: path})

	assert.Equal(t, false, payload["success"])
	assert.Equal(t, true, payload["_isError"])
	assert.Contains(t, payload["error"], "parse error")
}

func TestHandleAnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte(`export const a = 1;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.tsx"), []byte(`export const B = () => <p />;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.ts"), []byte(`const = {`), 0o644))

	s := newTestServer(t, dir)
	payload := callTool(t, s.handleAnalyzeDirectory, AnalyzeDirectoryParams{Path: dir})

	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(2), payload["count"])
	assert.Len(t, payload["results"], 2)

	skipped, ok := payload["skipped"].([]interface{})
	require.True(t, ok, "broken file should be reported as skipped")
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0], "broken.ts")
}

func TestHandleCacheLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.ts")
	require.NoError(t, os.WriteFile(path, []byte(`export const x = 1;`), 0o644))

	s := newTestServer(t, dir)
	callTool(t, s.handleAnalyzeFile, AnalyzeFileParams{Path: path})

	stats := callTool(t, s.handleCacheStats, struct{}{})
	assert.Equal(t, float64(1), stats["cacheSize"])

	cleared := callTool(t, s.handleClearCache, struct{}{})
	assert.Equal(t, float64(1), cleared["cleared"])

	stats = callTool(t, s.handleCacheStats, struct{}{})
	assert.Equal(t, float64(0), stats["cacheSize"])
}

func TestHandleInfo(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	payload := callTool(t, s.handleInfo, struct{}{})

	assert.Equal(t, true, payload["success"])
	assert.Contains(t, payload["supportedExtensions"], ".tsx")
	assert.Contains(t, payload["tools"], "analyze_file")
}
