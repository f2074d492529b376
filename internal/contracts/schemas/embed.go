package schemas

import "embed"

// SchemasFS содержит JSON-схемы тел запросов и ответов каталога.
//
//go:embed payloads
var SchemasFS embed.FS
