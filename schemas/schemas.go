// Package schemas - JSON Schema контракты каталога и событий.
package schemas

import "embed"

// BaseURL - префикс, под которым схемы регистрируются в компиляторе, чтобы работали $ref
const BaseURL = "https://schemas.properteehub.dev/"

//go:embed listing/*.json events/*/*.json
var SchemasFS embed.FS
