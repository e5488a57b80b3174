// Package http provides HTTP handlers and routing for the Filewright
// backend REST API.
//
// This package implements all HTTP endpoints using the Gin framework:
// tab and pane management, navigation, selection, file operations,
// archives, search, places, tags, devices and the text editor.
//
// Endpoints:
//   - Health: / and /health, /metrics
//   - Tabs: /tabs, /tabs/:id, /tabs/:id/split, /tabs/:id/sort
//   - Panes: /panes/:id/navigate, back, forward, up, refresh, listing,
//     open, selection/*
//   - Files: /files/copy, move, rename, delete, mkdir, create, dirsize
//   - Archives: /archives/members, create, extract
//   - Extras: /search, /places, /tags, /devices, /editor/file
//
// Failed listings map the navigation error taxonomy onto HTTP statuses
// (404, 403, 400, 415, 422, 410); pane state stays untouched on failure.
package http
