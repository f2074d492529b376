package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"rental-listing-client/internal/contracts/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ключи схем, по которым транспортный клиент проверяет тела запросов и ответов.
const (
	PropertyDraftV1      = "PropertyDraftPayload/1.0.0"
	PropertyPageV1       = "PropertyPagePayload/1.0.0"
	AvailabilityChangeV1 = "AvailabilityChangePayload/1.0.0"
)

const schemasRoot = "payloads"

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

// load компилирует все встроенные схемы один раз.
func load() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchemas, compileErr = compileAll(schemas.SchemasFS)
	})
	return compiledSchemas, compileErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// Сначала добавляем все схемы как ресурсы, чтобы работали $ref между ними
	err := fs.WalkDir(fsys, schemasRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	result := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := generateKeyFromPath(path)
		if key == "" {
			continue
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		result[key] = schema
	}
	return result, nil
}

// generateKeyFromPath преобразует "payloads/property-draft/v1.json" в "PropertyDraftPayload/1.0.0".
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, schemasRoot+"/")
	trimmed = strings.TrimSuffix(trimmed, ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Payload")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// Keys возвращает ключи всех скомпилированных схем.
func Keys() ([]string, error) {
	compiled, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(compiled))
	for k := range compiled {
		keys = append(keys, k)
	}
	return keys, nil
}

// ValidatePayload проверяет сырое JSON-тело по схеме с ключом key.
func ValidatePayload(key string, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("payload is not a valid JSON: %w", err)
	}
	return validate(key, v)
}

// ValidateValue сериализует значение и проверяет его по схеме.
// Так проверяются исходящие тела запросов до отправки.
func ValidateValue(key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal payload: %w", err)
	}
	return ValidatePayload(key, body)
}

func validate(key string, v interface{}) error {
	compiled, err := load()
	if err != nil {
		return err
	}
	schema, ok := compiled[key]
	if !ok {
		return fmt.Errorf("schema %q not found", key)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
