package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"listing-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ListingSchemaKey        = "Listing/1.0.0"
	ListingUpsertedEventKey = "ListingUpsertedEvent/1.0.0"
	ListingRemovedEventKey  = "ListingRemovedEvent/1.0.0"
)

var (
	compileOnce     sync.Once
	compileErr      error
	compiledSchemas map[string]*jsonschema.Schema
)

// compileAll регистрирует все схемы как ресурсы (чтобы работали $ref) и компилирует их
func compileAll() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemas.SchemasFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemas.SchemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := compiler.AddResource(schemas.BaseURL+path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking and adding schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(schemas.BaseURL + path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not follow <name>/v<N>.json layout", path)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует путь вида "events/listing-upserted/v1.json"
// в ключ вида "ListingUpsertedEvent/1.0.0", а "listing/v1.json" - в "Listing/1.0.0".
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimSuffix(path, ".json")

	suffix := ""
	if strings.HasPrefix(trimmed, "events/") {
		trimmed = strings.TrimPrefix(trimmed, "events/")
		suffix = "Event"
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString(suffix)

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"
	return name.String() + "/" + version
}

func schemaFor(key string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchemas, compileErr = compileAll()
	})
	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := compiledSchemas[key]
	if !ok {
		return nil, fmt.Errorf("schema %q not found", key)
	}
	return schema, nil
}

// Validate проверяет JSON-документ по схеме с ключом key
func Validate(key string, body []byte) error {
	schema, err := schemaFor(key)
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidateEvent принимает тело сообщения и его метаданные и проверяет по схеме
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	return Validate(eventType+"/"+eventVersion, body)
}
